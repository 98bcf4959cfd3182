package session

import (
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
)

// Registry tracks all online players by name. It doubles as the
// admin-notification channel: staff broadcasts go to every online player
// of at least moderator rank.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
}

// NewRegistry ...
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Add registers an online player.
func (r *Registry) Add(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[strings.ToLower(p.Name())] = p
}

// Remove unregisters a player by name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, strings.ToLower(name))
}

// FindPlayer resolves an online player by name, case-insensitively.
func (r *Registry) FindPlayer(name string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[strings.ToLower(name)]
	return p, ok
}

// All returns every online player.
func (r *Registry) All() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.players)
}

// Staff returns every online player of at least the given rank.
func (r *Registry) Staff(min rank.Rank) []*Player {
	return lo.Filter(r.All(), func(p *Player, _ int) bool {
		return p.Rank().AtLeast(min)
	})
}

// NotifyStaff broadcasts a message to all online moderators and above.
// The broadcast is fire-and-forget; offline staff simply miss it. source
// and state carry the triggering player (possibly nil for system checks)
// and their moderation state for channels that attach per-actor context;
// the chat broadcast only uses the message.
func (r *Registry) NotifyStaff(message string, _ *Player, _ *ModState) {
	for _, p := range r.Staff(rank.Moderator) {
		p.Message("%s", message)
	}
}
