package guard

import (
	"net"
	"time"

	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

// Allower refuses connections of players with an active ban.
type Allower struct {
	bans *moderation.Bans
}

// Allow ...
func (a *Allower) Allow(_ net.Addr, d login.IdentityData, _ login.ClientData) (string, bool) {
	record, ok := a.bans.ActiveBan(d.XUID)
	if !ok {
		return "", true
	}

	expiry := "permanent"
	if record.UnbanTime != moderation.Permanent {
		expiry = time.UnixMilli(record.UnbanTime).Format("2006-01-02 15:04:05 MST")
	}
	return text.Colourf("<red>You're banned! Reason: %s, Expires: %s, Banned by: %s</red>", record.Reason, expiry, record.BannedBy), false
}
