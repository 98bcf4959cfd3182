package records

import (
	"math/rand"
	"strconv"
	"time"
)

// NewID generates a record identifier from the current epoch millisecond
// and a short random suffix. Collisions are tolerated: identifiers only
// need to be unique within a bounded cache, not cryptographically.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + strconv.FormatInt(int64(rand.Intn(36*36*36)), 36)
}
