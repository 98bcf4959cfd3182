// Package util provides small helpers shared across the guard packages.
package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// durationUnits maps the single-letter suffixes accepted in punishment
// durations to their length. time.ParseDuration stops at hours, so days
// and weeks are handled here.
var durationUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

// ParseDuration parses a punishment duration such as "30m", "7d" or
// "permanent". It returns permanent == true for the permanent sentinels,
// and an error for zero, negative or unparseable input.
func ParseDuration(s string) (d time.Duration, permanent bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "permanent", "perm", "forever":
		return 0, true, nil
	case "":
		return 0, false, fmt.Errorf("duration: empty string")
	}

	if unit, ok := durationUnits[s[len(s)-1]]; ok {
		if n, convErr := strconv.ParseInt(s[:len(s)-1], 10, 64); convErr == nil {
			d = time.Duration(n) * unit
			if d <= 0 {
				return 0, false, fmt.Errorf("duration: %q is not positive", s)
			}
			return d, false, nil
		}
	}

	// Fall back to the standard notation for compound values like "1h30m".
	d, err = time.ParseDuration(s)
	if err != nil {
		return 0, false, fmt.Errorf("duration: cannot parse %q: %w", s, err)
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("duration: %q is not positive", s)
	}
	return d, false, nil
}

// Duration wraps time.Duration so it can be used in TOML configuration.
type Duration time.Duration

// UnmarshalText ...
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: cannot parse %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText ...
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(*d).String()), nil
}
