// Package handler bridges dragonfly player events into the moderation
// layer.
package handler

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/player/chat"

	"github.com/smell-of-curry/pokebedrock-guard/guard/command"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
)

// PlayerHandler routes chat through the command gateway and keeps the
// session registry in sync with joins and quits.
type PlayerHandler struct {
	session  *session.Player
	registry *session.Registry
	commands *command.Registry

	player.NopHandler
}

// NewPlayerHandler wraps a freshly accepted player.
func NewPlayerHandler(s *session.Player, registry *session.Registry, commands *command.Registry) *PlayerHandler {
	registry.Add(s)
	return &PlayerHandler{
		session:  s,
		registry: registry,
		commands: commands,
	}
}

// Session returns the moderation-layer session of the player.
func (h *PlayerHandler) Session() *session.Player {
	return h.session
}

// HandleChat intercepts prefix commands; they are consumed and never reach
// ordinary chat. Anything else is forwarded as a rank-formatted chat
// message.
func (h *PlayerHandler) HandleChat(ctx *player.Context, message *string) {
	if h.commands.HandleChat(*message, h.session) {
		ctx.Cancel()
		return
	}

	ctx.Cancel()
	p := ctx.Val()
	_, _ = chat.Global.WriteString(h.session.Rank().Chat(p.Name(), *message))
}

// HandleQuit ...
func (h *PlayerHandler) HandleQuit(p *player.Player) {
	h.registry.Remove(p.Name())
}

// Conn adapts a dragonfly player to the session.Conn contract.
type Conn struct {
	p *player.Player
}

// NewConn ...
func NewConn(p *player.Player) Conn {
	return Conn{p: p}
}

// Name ...
func (c Conn) Name() string { return c.p.Name() }

// XUID ...
func (c Conn) XUID() string { return c.p.XUID() }

// Message ...
func (c Conn) Message(format string, args ...any) {
	c.p.Messagef(format, args...)
}

// Disconnect ...
func (c Conn) Disconnect(message string) {
	c.p.Disconnect(message)
}
