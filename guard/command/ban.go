package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
	"github.com/smell-of-curry/pokebedrock-guard/guard/util"
)

// expiryFormat renders ban expiry timestamps in disconnect messages.
const expiryFormat = "2006-01-02 15:04:05 MST"

// Ban removes a player from the server for a duration. Syntax:
// ban <player> [duration] [reason...]. The duration defaults to permanent;
// the reason defaults to an operator or automation template. The automation
// layer invokes the same executor with a nil player and AutoMod set; the
// permission hierarchy then does not apply.
func Ban(inv Invocation, args []string, deps Deps) {
	if len(args) == 0 {
		inv.Respond(deps.Log, text.Colourf("<red>Usage: %sban <player> [duration] [reason...]</red>", deps.Prefix))
		return
	}

	target, ok := deps.Players.FindPlayer(args[0])
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>Target %q not found.</red>", args[0]))
		return
	}

	if !inv.AutoMod && inv.Player != nil {
		if denied := checkBanHierarchy(inv.Player, target); denied != "" {
			inv.Respond(deps.Log, denied)
			return
		}
	}

	durationArg := "permanent"
	if len(args) >= 2 {
		durationArg = args[1]
	}
	duration, permanent, err := util.ParseDuration(durationArg)
	if err != nil {
		inv.Respond(deps.Log, text.Colourf("<red>Invalid duration %q.</red>", durationArg))
		return
	}
	if permanent {
		duration = 0
	}

	reason := strings.Join(args[2:], " ")
	if reason == "" {
		if inv.AutoMod {
			reason = fmt.Sprintf("Unfair advantage: %s", inv.CheckType)
		} else {
			reason = "Banned by an operator."
		}
	}

	record, ok := deps.Bans.Add(
		moderation.Subject{XUID: target.XUID(), Name: target.Name()},
		reason, inv.IssuerName(), duration, inv.AutoMod, inv.CheckType,
	)
	if !ok {
		inv.Respond(deps.Log, text.Colourf("<red>Failed to ban %s.</red>", target.Name()))
		return
	}

	expiry := "permanent"
	if record.UnbanTime != moderation.Permanent {
		expiry = time.UnixMilli(record.UnbanTime).Format(expiryFormat)
	}
	disconnectSafely(deps, target, text.Colourf(
		"<red>You have been banned!</red>\n<red>Reason: %s</red>\n<red>Banned by: %s</red>\n<red>Expires: %s</red>",
		record.Reason, record.BannedBy, expiry,
	))

	deps.Sync.PushBan(record)
	inv.Respond(deps.Log, text.Colourf("<green>Banned %s (%s). Reason: %s</green>", target.Name(), expiry, record.Reason))
	deps.Players.NotifyStaff(text.Colourf("<red>%s was banned by %s. Reason: %s</red>", target.Name(), record.BannedBy, record.Reason), nil, nil)
	deps.Actions.Append(moderation.ActionEntry{
		AdminName:  record.BannedBy,
		ActionType: "ban",
		TargetName: target.Name(),
		Duration:   durationArg,
		Reason:     record.Reason,
		AutoMod:    inv.AutoMod,
		CheckType:  inv.CheckType,
	})
}

// checkBanHierarchy enforces the ordering rule between a human issuer and
// the target. It returns a denial message, or "" when the ban may proceed.
// Owner-tier targets cannot be banned through this command at all, which
// also settles the owner-versus-owner case.
func checkBanHierarchy(issuer, target *session.Player) string {
	if issuer == target {
		return text.Colourf("<red>You cannot ban yourself.</red>")
	}
	if target.Rank() == rank.Owner {
		return text.Colourf("<red>Owners cannot be banned.</red>")
	}
	if target.Rank().AtLeast(rank.Admin) && issuer.Rank() != rank.Owner {
		return text.Colourf("<red>Only the owner may ban staff members.</red>")
	}
	return ""
}

// disconnectSafely kicks the target, tolerating a target that already
// disconnected. The race is traced, never surfaced as a command failure.
func disconnectSafely(deps Deps, target *session.Player, message string) {
	defer func() {
		if v := recover(); v != nil {
			deps.Log.Debug("command: target already disconnected", "target", target.Name(), "error", fmt.Sprint(v))
		}
	}()
	target.Disconnect(message)
}
