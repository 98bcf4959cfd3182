package command

import (
	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

// Unban lifts the active ban of a player by name. Syntax: unban <player>.
func Unban(inv Invocation, args []string, deps Deps) {
	if len(args) == 0 {
		inv.Respond(deps.Log, text.Colourf("<red>Usage: %sunban <player></red>", deps.Prefix))
		return
	}

	record, ok := deps.Bans.ActiveBanByName(args[0])
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>No active ban found for %q.</red>", args[0]))
		return
	}
	if !deps.Bans.RemoveByID(record.ID) {
		inv.Respond(deps.Log, text.Colourf("<red>Failed to lift the ban of %s.</red>", record.TargetName))
		return
	}

	deps.Sync.PushUnban(record)
	inv.Respond(deps.Log, text.Colourf("<green>Unbanned %s.</green>", record.TargetName))
	deps.Actions.Append(moderation.ActionEntry{
		AdminName:  inv.IssuerName(),
		ActionType: "unban",
		TargetName: record.TargetName,
		Reason:     "Ban lifted",
	})
}
