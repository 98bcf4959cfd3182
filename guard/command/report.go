package command

import (
	"strings"

	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

// Report files a report against another player. Syntax:
// report <player> <reason...>. Reports are visible to staff through the
// moderation API and UI tooling.
func Report(inv Invocation, args []string, deps Deps) {
	if inv.Player == nil {
		deps.Log.Warn("command: report requires a player issuer")
		return
	}
	if len(args) < 2 {
		inv.Respond(deps.Log, text.Colourf("<red>Usage: %sreport <player> <reason...></red>", deps.Prefix))
		return
	}

	target, ok := deps.Players.FindPlayer(args[0])
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>Target %q not found.</red>", args[0]))
		return
	}
	if target == inv.Player {
		inv.Respond(deps.Log, text.Colourf("<red>You cannot report yourself.</red>"))
		return
	}

	reason := strings.Join(args[1:], " ")
	entry, ok := deps.Reports.Add(
		moderation.Subject{XUID: inv.Player.XUID(), Name: inv.Player.Name()},
		moderation.Subject{XUID: target.XUID(), Name: target.Name()},
		reason,
	)
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>Your report could not be filed.</red>"))
		return
	}

	inv.Respond(deps.Log, text.Colourf("<green>Report filed against %s.</green>", target.Name()))
	deps.Players.NotifyStaff(text.Colourf("<yellow>%s reported %s: %s</yellow>", entry.ReporterName, entry.ReportedName, entry.Reason), inv.Player, inv.Player.State())
}
