// Package rank implements the permission hierarchy of the moderation layer.
package rank

import "github.com/sandertv/gophertunnel/minecraft/text"

// Rank represents the permission level of a player. Lower values rank
// higher: Owner is the most privileged tier, Member the least.
type Rank int

// Rank constants, most privileged first.
const (
	Owner Rank = iota
	Admin
	Moderator
	Member
)

// Info centralizes all details for each rank.
type Info struct {
	DisplayName string // Human-readable name of the rank.
	Color       string // Color to be used (must follow the color guidelines).
	Prefix      bool   // If true, the rank's title is prepended to the player's name.
}

// rankInfos holds the rank details in the same order as the Rank constants.
var rankInfos = map[Rank]Info{
	Owner:     {DisplayName: "Owner", Color: "dark-red", Prefix: true},
	Admin:     {DisplayName: "Admin", Color: "red", Prefix: true},
	Moderator: {DisplayName: "Moderator", Color: "blue", Prefix: true},
	Member:    {DisplayName: "Member", Color: "grey", Prefix: false},
}

// Name returns the human-readable name of the rank.
func (r Rank) Name() string {
	info, ok := rankInfos[r]
	if !ok {
		return "Unknown"
	}
	return info.DisplayName
}

// AtLeast reports whether the rank grants at least the privilege of other.
// Ranks compare inverted: a numerically lower rank is more privileged.
func (r Rank) AtLeast(other Rank) bool {
	return r <= other
}

// FormatName formats a player's name according to their rank.
// If the rank uses a prefix, the rank's title is prepended.
func (r Rank) FormatName(name string) string {
	info, ok := rankInfos[r]
	if !ok {
		return text.Colourf("<grey>%s</grey>", name)
	}

	if info.Prefix {
		return text.Colourf("<%s>%s %s</%s>", info.Color, info.DisplayName, name, info.Color)
	}
	return text.Colourf("<%s>%s</%s>", info.Color, name, info.Color)
}

// Chat formats a chat message with the rank's styled name.
func (r Rank) Chat(name, message string) string {
	return text.Colourf("%s: <grey>%s</grey>", r.FormatName(name), message)
}
