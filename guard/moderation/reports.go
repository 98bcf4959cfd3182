package moderation

import (
	"log/slog"
	"strings"
	"time"

	"github.com/smell-of-curry/pokebedrock-guard/guard/records"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

const (
	reportsKey = "guard:reports/v1"

	// MaxReports bounds the in-memory report collection; the oldest
	// entries are evicted past it.
	MaxReports = 100
)

// Reports is the durable cache of player reports, newest first.
type Reports struct {
	cache *records.Cache[ReportEntry]
}

// NewReports loads the persisted reports from the store.
func NewReports(kv storage.KV, log *slog.Logger) *Reports {
	return &Reports{
		cache: records.NewCache[ReportEntry](kv, log, reportsKey, MaxReports),
	}
}

// Add files a new report. Both subjects must carry full identity; an
// invalid subject yields ok == false without mutating the collection.
func (r *Reports) Add(reporter, reported Subject, reason string) (ReportEntry, bool) {
	if !reporter.Valid() || !reported.Valid() {
		return ReportEntry{}, false
	}

	entry := ReportEntry{
		ID:           records.NewID(),
		Timestamp:    time.Now().UnixMilli(),
		ReporterXUID: reporter.XUID,
		ReporterName: reporter.Name,
		ReportedXUID: reported.XUID,
		ReportedName: reported.Name,
		Reason:       strings.TrimSpace(reason),
	}
	r.cache.Add(entry)
	return entry, true
}

// All returns a copy of the reports, newest first.
func (r *Reports) All() []ReportEntry {
	return r.cache.All()
}

// RemoveByID removes a report and persists immediately. Removing an
// unknown id returns false without side effects.
func (r *Reports) RemoveByID(id string) bool {
	return r.cache.RemoveByID(id)
}

// Clear drops every report and persists immediately.
func (r *Reports) Clear() {
	r.cache.Clear()
}

// Flush writes pending changes to the store.
func (r *Reports) Flush() error {
	return r.cache.Flush()
}
