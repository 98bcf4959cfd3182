// Package automod maps cheat-detection violations to configured
// consequences: flag accumulation, action logging and staff notification.
package automod

import "fmt"

// FlagAction configures the flag consequence of a profile.
type FlagAction struct {
	// Type overrides the flag counter used; the check type when empty.
	Type string `toml:"type"`
	// Increment is the number of flags added per violation, at least 1.
	Increment int `toml:"increment"`
	// Reason is the message template recorded with each flag.
	Reason string `toml:"reason"`
}

// LogAction configures the action-log consequence of a profile.
type LogAction struct {
	// ActionType overrides the logged action type; "detected_<check>"
	// when empty.
	ActionType string `toml:"action_type"`
	// DetailsPrefix is prepended to the formatted violation details.
	DetailsPrefix string `toml:"details_prefix"`
	// IncludeViolationDetails defaults to true when absent.
	IncludeViolationDetails *bool `toml:"include_violation_details"`
}

// includeDetails ...
func (l *LogAction) includeDetails() bool {
	return l.IncludeViolationDetails == nil || *l.IncludeViolationDetails
}

// NotifyAction configures the staff-notification consequence of a profile.
type NotifyAction struct {
	Message string `toml:"message"`
}

// Profile is the consequence configuration of one check type. A nil
// sub-action disables that consequence; Enabled false disables all of them.
type Profile struct {
	Enabled      bool          `toml:"enabled"`
	Flag         *FlagAction   `toml:"flag"`
	Log          *LogAction    `toml:"log"`
	NotifyAdmins *NotifyAction `toml:"notify_admins"`
}

// ProfileTable maps check types to their profiles. It is read-only at
// runtime; Validate rejects invalid profiles once at load so that a broken
// profile fails startup instead of silently no-op'ing per event.
type ProfileTable map[string]Profile

// Validate checks and normalizes the table. A flag increment of zero is
// normalized to one; a negative increment or an empty notify message is an
// error.
func (t ProfileTable) Validate() error {
	for checkType, profile := range t {
		if profile.Flag != nil {
			if profile.Flag.Increment < 0 {
				return fmt.Errorf("automod: profile %q: flag increment must be at least 1", checkType)
			}
			if profile.Flag.Increment == 0 {
				profile.Flag.Increment = 1
				t[checkType] = profile
			}
		}
		if profile.NotifyAdmins != nil && profile.NotifyAdmins.Message == "" {
			return fmt.Errorf("automod: profile %q: notify_admins requires a message", checkType)
		}
	}
	return nil
}
