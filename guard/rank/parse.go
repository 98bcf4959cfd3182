package rank

import (
	"fmt"
	"strings"
)

// Parse converts a configured rank name into a Rank.
func Parse(name string) (Rank, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "owner":
		return Owner, nil
	case "admin":
		return Admin, nil
	case "moderator", "mod":
		return Moderator, nil
	case "member", "":
		return Member, nil
	default:
		return Member, fmt.Errorf("rank: unrecognized rank %q", name)
	}
}
