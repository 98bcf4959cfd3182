// Package command implements the chat command surface of the moderation
// layer: registration, alias resolution, permission gating and dispatch.
package command

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
	"github.com/smell-of-curry/pokebedrock-guard/guard/modsync"
	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
)

// Definition describes a chat command. Names are unique
// case-insensitively; Rank is the least privileged rank allowed to run the
// command.
type Definition struct {
	Name        string
	Syntax      string
	Description string
	Rank        rank.Rank
	Enabled     bool
}

// Invocation identifies who triggered an execution. Player is nil when the
// command is invoked programmatically; AutoMod and CheckType mark
// detection-originated invocations.
type Invocation struct {
	Player    *session.Player
	AutoMod   bool
	CheckType string
}

// IssuerName returns the display identity of the invoker: the automation
// identity for automated invocations, the player's name otherwise, and
// "System" for a bare programmatic call.
func (inv Invocation) IssuerName() string {
	if inv.AutoMod {
		return "AutoMod"
	}
	if inv.Player != nil {
		return inv.Player.Name()
	}
	return "System"
}

// Respond delivers a message to the invoker: the player when present, the
// console log otherwise.
func (inv Invocation) Respond(log *slog.Logger, message string) {
	if inv.Player != nil {
		inv.Player.Message("%s", message)
		return
	}
	log.Info(text.Clean(message))
}

// Players is the view of the online-player registry available to commands.
type Players interface {
	FindPlayer(name string) (*session.Player, bool)
	All() []*session.Player
	NotifyStaff(message string, source *session.Player, state *session.ModState)
}

// Deps bundles the collaborators handed to every executor.
type Deps struct {
	Log     *slog.Logger
	OpLog   *slog.Logger
	Prefix  string
	Players Players
	Reports *moderation.Reports
	Bans    *moderation.Bans
	Actions *moderation.ActionLog

	// Sync mirrors punishments to the external moderation API; nil
	// disables mirroring.
	Sync *modsync.Service

	// Definitions enumerates the registered commands, for commands like
	// help that list others. Enabled reports effective enablement with
	// per-installation overrides applied.
	Definitions func() []Definition
	Enabled     func(name string) bool
}

// Executor runs a command on behalf of an invoker.
type Executor func(inv Invocation, args []string, deps Deps)

// Registry owns the command lookup tables and routes chat messages to
// executors. It is constructed once at startup; all lookups are keyed by
// lowercased name.
type Registry struct {
	log       *slog.Logger
	prefix    string
	aliases   map[string]string
	overrides map[string]bool

	defs  map[string]Definition
	execs map[string]Executor

	deps Deps
}

// NewRegistry creates an empty registry. aliases maps alternative names to
// command names; overrides enables or disables commands per installation,
// winning over the compiled-in default.
func NewRegistry(log *slog.Logger, prefix string, aliases map[string]string, overrides map[string]bool, deps Deps) *Registry {
	r := &Registry{
		log:       log,
		prefix:    prefix,
		aliases:   aliases,
		overrides: overrides,
		defs:      make(map[string]Definition),
		execs:     make(map[string]Executor),
		deps:      deps,
	}
	r.deps.Definitions = r.Definitions
	r.deps.Enabled = r.Enabled
	return r
}

// Register adds a command. A duplicate name overwrites the previous
// registration and is surfaced as a warning rather than a silent failure.
func (r *Registry) Register(def Definition, exec Executor) {
	name := strings.ToLower(def.Name)
	if _, ok := r.defs[name]; ok {
		r.log.Warn("command: duplicate registration overwrites previous", "command", name)
	}
	r.defs[name] = def
	r.execs[name] = exec
}

// Definitions returns every registered command definition.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	return defs
}

// Enabled reports the effective enablement of a command: the
// per-installation override when present, the compiled-in default
// otherwise.
func (r *Registry) Enabled(name string) bool {
	if override, ok := r.overrides[strings.ToLower(name)]; ok {
		return override
	}
	def, ok := r.defs[strings.ToLower(name)]
	return ok && def.Enabled
}

// HandleChat intercepts a chat message. It returns true when the message
// was a command attempt and must not reach ordinary chat, false when the
// message does not start with the command prefix.
func (r *Registry) HandleChat(raw string, p *session.Player) bool {
	if !strings.HasPrefix(raw, r.prefix) {
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(raw, r.prefix))
	if len(fields) == 0 {
		p.Message("%s", text.Colourf("<red>Type a command after %q. Use %shelp for a list of commands.</red>", r.prefix, r.prefix))
		return true
	}

	name := strings.ToLower(fields[0])
	if target, ok := r.aliases[name]; ok {
		name = strings.ToLower(target)
	}

	def, ok := r.defs[name]
	_, execOK := r.execs[name]
	if !ok || !execOK {
		r.unknownCommand(p)
		return true
	}

	// A disabled command must respond exactly like an unknown one so it
	// does not leak its existence.
	if !r.Enabled(name) {
		r.unknownCommand(p)
		return true
	}

	if !p.Rank().AtLeast(def.Rank) {
		p.Message("%s", text.Colourf("<red>You do not have permission to use this command.</red>"))
		return true
	}

	if p.Rank().AtLeast(rank.Admin) {
		r.deps.OpLog.Info("admin command issued", "admin", p.Name(), "xuid", p.XUID(), "message", raw)
	}
	if p.Watched() {
		r.log.Info("watched admin ran command", "admin", p.Name(), "message", raw)
	}

	r.Run(name, Invocation{Player: p}, fields[1:])
	return true
}

// Run dispatches a command by name. It is also the programmatic entry
// point used by the automation layer. Executor panics are contained here:
// the invoker gets a generic failure message, the panic is traced and
// captured, and a command_error audit entry is appended. One failing
// command never destabilizes the dispatch loop.
func (r *Registry) Run(name string, inv Invocation, args []string) {
	exec, ok := r.execs[strings.ToLower(name)]
	if !ok {
		r.log.Warn("command: programmatic dispatch of unknown command", "command", name)
		return
	}

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		sentry.CurrentHub().Recover(v)
		r.log.Error("command: executor panicked",
			"command", name, "issuer", inv.IssuerName(), "args", args,
			"error", fmt.Sprint(v), "stack", string(debug.Stack()))
		if inv.Player != nil {
			inv.Player.Message("%s", text.Colourf("<red>An internal error occurred while running this command.</red>"))
		}
		if r.deps.Actions != nil {
			r.deps.Actions.Append(moderation.ActionEntry{
				AdminName:  inv.IssuerName(),
				ActionType: "command_error",
				TargetName: name,
				Details:    strings.Join(args, " "),
				Reason:     fmt.Sprint(v),
			})
		}
	}()
	exec(inv, args, r.deps)
}

// unknownCommand ...
func (r *Registry) unknownCommand(p *session.Player) {
	p.Message("%s", text.Colourf("<red>Unknown command. Use %shelp for a list of commands.</red>", r.prefix))
}
