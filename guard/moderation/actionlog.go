package moderation

import (
	"log/slog"
	"time"

	"github.com/smell-of-curry/pokebedrock-guard/guard/records"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

const (
	actionLogKey = "guard:actionlog/v1"

	// MaxActionEntries bounds the audit log held in memory.
	MaxActionEntries = 500
)

// ActionLog is the append-only audit log of administrative and automated
// moderation actions. It is distinct from operator-facing trace output.
type ActionLog struct {
	cache *records.Cache[ActionEntry]
}

// NewActionLog loads the persisted action log from the store.
func NewActionLog(kv storage.KV, log *slog.Logger) *ActionLog {
	return &ActionLog{
		cache: records.NewCache[ActionEntry](kv, log, actionLogKey, MaxActionEntries),
	}
}

// Append adds an audit entry, stamping its identifier and timestamp.
func (l *ActionLog) Append(entry ActionEntry) ActionEntry {
	entry.ID = records.NewID()
	entry.Timestamp = time.Now().UnixMilli()
	l.cache.Add(entry)
	return entry
}

// All returns a copy of the audit entries, newest first.
func (l *ActionLog) All() []ActionEntry {
	return l.cache.All()
}

// Flush writes pending changes to the store.
func (l *ActionLog) Flush() error {
	return l.cache.Flush()
}
