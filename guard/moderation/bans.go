package moderation

import (
	"log/slog"
	"strings"
	"time"

	"github.com/smell-of-curry/pokebedrock-guard/guard/records"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

const (
	bansKey = "guard:bans/v1"

	// MaxBans bounds the ban collection like MaxReports bounds reports.
	MaxBans = 100
)

// Bans is the durable cache of ban records, newest first.
type Bans struct {
	cache *records.Cache[BanRecord]
	log   *slog.Logger
}

// NewBans loads the persisted bans from the store.
func NewBans(kv storage.KV, log *slog.Logger) *Bans {
	return &Bans{
		cache: records.NewCache[BanRecord](kv, log, bansKey, MaxBans),
		log:   log,
	}
}

// Add applies a ban on the target. duration <= 0 means permanent. The
// target must carry full identity; an invalid subject yields ok == false
// without mutating the collection. The record is persisted immediately so
// a crash cannot lose an applied ban.
func (b *Bans) Add(target Subject, reason, bannedBy string, duration time.Duration, autoMod bool, checkType string) (BanRecord, bool) {
	if !target.Valid() {
		return BanRecord{}, false
	}

	now := time.Now()
	unban := Permanent
	if duration > 0 {
		unban = now.Add(duration).UnixMilli()
	}

	record := BanRecord{
		ID:         records.NewID(),
		Timestamp:  now.UnixMilli(),
		TargetXUID: target.XUID,
		TargetName: target.Name,
		Reason:     strings.TrimSpace(reason),
		BannedBy:   bannedBy,
		UnbanTime:  unban,
		AutoMod:    autoMod,
		CheckType:  checkType,
	}
	b.cache.Add(record)
	if err := b.cache.Flush(); err != nil {
		// The record stays in memory with the dirty flag set; a later
		// flush will retry.
		b.log.Error("moderation: failed to persist ban, will retry", "target", target.Name, "error", err)
	}
	return record, true
}

// ActiveBan returns the newest unexpired ban of the given XUID. Expired
// records are treated as absent.
func (b *Bans) ActiveBan(xuid string) (BanRecord, bool) {
	now := time.Now().UnixMilli()
	for _, record := range b.cache.All() {
		if record.TargetXUID != xuid {
			continue
		}
		if record.UnbanTime != Permanent && record.UnbanTime <= now {
			continue
		}
		return record, true
	}
	return BanRecord{}, false
}

// ActiveBanByName returns the newest unexpired ban matching the given
// target name, case-insensitively. Bans can outlive sessions, so lookups
// by name are needed once the target is offline.
func (b *Bans) ActiveBanByName(name string) (BanRecord, bool) {
	now := time.Now().UnixMilli()
	for _, record := range b.cache.All() {
		if !strings.EqualFold(record.TargetName, name) {
			continue
		}
		if record.UnbanTime != Permanent && record.UnbanTime <= now {
			continue
		}
		return record, true
	}
	return BanRecord{}, false
}

// RemoveByID lifts a ban and persists immediately. Removing an unknown id
// returns false without side effects.
func (b *Bans) RemoveByID(id string) bool {
	return b.cache.RemoveByID(id)
}

// All returns a copy of the ban records, newest first.
func (b *Bans) All() []BanRecord {
	return b.cache.All()
}

// Flush writes pending changes to the store.
func (b *Bans) Flush() error {
	return b.cache.Flush()
}
