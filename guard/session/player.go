// Package session tracks online players and the transient moderation state
// attached to them.
package session

import (
	"github.com/df-mc/atomic"

	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
)

// Conn is the host-side connection of an online player. The dragonfly
// handler provides the real implementation; tests use fakes.
type Conn interface {
	Name() string
	XUID() string
	Message(format string, args ...any)
	Disconnect(message string)
}

// Player represents an online player as seen by the moderation layer.
// A nil *Player stands for the system itself, e.g. for violations raised
// by checks that are not tied to any player.
type Player struct {
	conn Conn

	rank    atomic.Value[rank.Rank]
	watched atomic.Bool

	state *ModState
}

// NewPlayer wraps a host connection with the given rank.
func NewPlayer(conn Conn, r rank.Rank) *Player {
	p := &Player{
		conn:  conn,
		state: NewModState(),
	}
	p.rank.Store(r)
	return p
}

// Name ...
func (p *Player) Name() string {
	return p.conn.Name()
}

// XUID ...
func (p *Player) XUID() string {
	return p.conn.XUID()
}

// Rank returns the player's permission rank.
func (p *Player) Rank() rank.Rank {
	return p.rank.Load()
}

// SetRank ...
func (p *Player) SetRank(r rank.Rank) {
	p.rank.Store(r)
}

// Watched reports whether the player is a watched admin whose commands are
// traced for audit visibility.
func (p *Player) Watched() bool {
	return p.watched.Load()
}

// SetWatched ...
func (p *Player) SetWatched(watched bool) {
	p.watched.Store(watched)
}

// Message sends a formatted message to the player.
func (p *Player) Message(format string, args ...any) {
	p.conn.Message(format, args...)
}

// Disconnect removes the player from the server with the given message.
func (p *Player) Disconnect(message string) {
	p.conn.Disconnect(message)
}

// State returns the player's moderation state.
func (p *Player) State() *ModState {
	return p.state
}
