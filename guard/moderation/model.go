// Package moderation holds the durable moderation records of the server:
// player reports, bans and the action log, each persisted through the
// records cache pattern.
package moderation

// Permanent is the UnbanTime sentinel of a ban that never expires.
const Permanent int64 = -1

// Subject identifies a player referenced by a moderation record.
type Subject struct {
	XUID string
	Name string
}

// Valid reports whether the subject carries both identity fields.
func (s Subject) Valid() bool {
	return s.XUID != "" && s.Name != ""
}

// ReportEntry is a player report filed through the report command.
type ReportEntry struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	ReporterXUID string `json:"reporter_xuid"`
	ReporterName string `json:"reporter_name"`
	ReportedXUID string `json:"reported_xuid"`
	ReportedName string `json:"reported_name"`
	Reason       string `json:"reason"`
}

// EntryID ...
func (e ReportEntry) EntryID() string { return e.ID }

// BanRecord is an applied ban. UnbanTime is an epoch-millisecond expiry or
// the Permanent sentinel; an expired record is treated as absent on lookup.
type BanRecord struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	TargetXUID string `json:"target_xuid"`
	TargetName string `json:"target_name"`
	Reason     string `json:"reason"`
	BannedBy   string `json:"banned_by"`
	UnbanTime  int64  `json:"unban_time"`
	AutoMod    bool   `json:"is_automod,omitempty"`
	CheckType  string `json:"check_type,omitempty"`
}

// EntryID ...
func (r BanRecord) EntryID() string { return r.ID }

// ActionEntry is one append-only audit record of an administrative or
// automated action, consumed by reporting tooling outside this core.
type ActionEntry struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	AdminName  string `json:"admin_name"`
	ActionType string `json:"action_type"`
	TargetName string `json:"target_name"`
	Duration   string `json:"duration,omitempty"`
	Details    string `json:"details,omitempty"`
	Reason     string `json:"reason"`
	AutoMod    bool   `json:"is_automod,omitempty"`
	CheckType  string `json:"check_type,omitempty"`
}

// EntryID ...
func (e ActionEntry) EntryID() string { return e.ID }
