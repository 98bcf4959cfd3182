package command

import "github.com/smell-of-curry/pokebedrock-guard/guard/rank"

// RegisterAll registers the built-in command set on the registry.
func RegisterAll(r *Registry) {
	r.Register(Definition{
		Name:        "ban",
		Syntax:      "ban <player> [duration] [reason...]",
		Description: "Ban a player from the server.",
		Rank:        rank.Admin,
		Enabled:     true,
	}, Ban)
	r.Register(Definition{
		Name:        "unban",
		Syntax:      "unban <player>",
		Description: "Lift a player's active ban.",
		Rank:        rank.Admin,
		Enabled:     true,
	}, Unban)
	r.Register(Definition{
		Name:        "kick",
		Syntax:      "kick <player> [reason...]",
		Description: "Kick a player from the server.",
		Rank:        rank.Moderator,
		Enabled:     true,
	}, Kick)
	r.Register(Definition{
		Name:        "report",
		Syntax:      "report <player> <reason...>",
		Description: "Report a player to the staff team.",
		Rank:        rank.Member,
		Enabled:     true,
	}, Report)
	r.Register(Definition{
		Name:        "help",
		Syntax:      "help",
		Description: "List available commands.",
		Rank:        rank.Member,
		Enabled:     true,
	}, Help)
}
