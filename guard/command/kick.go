package command

import (
	"strings"

	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

// Kick disconnects a player without recording a ban. Syntax:
// kick <player> [reason...].
func Kick(inv Invocation, args []string, deps Deps) {
	if len(args) == 0 {
		inv.Respond(deps.Log, text.Colourf("<red>Usage: %skick <player> [reason...]</red>", deps.Prefix))
		return
	}

	target, ok := deps.Players.FindPlayer(args[0])
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>Target %q not found.</red>", args[0]))
		return
	}
	if inv.Player != nil && target == inv.Player {
		inv.Respond(deps.Log, text.Colourf("<red>You cannot kick yourself.</red>"))
		return
	}

	reason := strings.Join(args[1:], " ")
	if reason == "" {
		reason = "No reason provided"
	}

	disconnectSafely(deps, target, text.Colourf("<red>You've been kicked. Reason: %s</red>", reason))
	inv.Respond(deps.Log, text.Colourf("<green>Kicked %s. Reason: %s</green>", target.Name(), reason))
	deps.Actions.Append(moderation.ActionEntry{
		AdminName:  inv.IssuerName(),
		ActionType: "kick",
		TargetName: target.Name(),
		Reason:     reason,
		AutoMod:    inv.AutoMod,
		CheckType:  inv.CheckType,
	})
}
