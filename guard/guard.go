package guard

import (
	"log/slog"
	"time"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/getsentry/sentry-go"
	"github.com/samber/lo"

	"github.com/smell-of-curry/pokebedrock-guard/guard/api"
	"github.com/smell-of-curry/pokebedrock-guard/guard/automod"
	"github.com/smell-of-curry/pokebedrock-guard/guard/command"
	"github.com/smell-of-curry/pokebedrock-guard/guard/handler"
	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
	"github.com/smell-of-curry/pokebedrock-guard/guard/modsync"
	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

// flushInterval is how often pending moderation records are written to the
// store. A failed write keeps the dirty flag set, so the next tick retries.
const flushInterval = 30 * time.Second

// Guard represents the main server struct. It owns the storage, the
// moderation record caches, the automod engine and the command gateway,
// and hands them to the per-player handlers.
type Guard struct {
	log  *slog.Logger
	conf Config

	srv *server.Server
	kv  storage.KV

	players  *session.Registry
	reports  *moderation.Reports
	bans     *moderation.Bans
	actions  *moderation.ActionLog
	engine   *automod.Engine
	commands *command.Registry

	c chan struct{}
}

// New creates a new Guard instance around the given configuration.
func New(log *slog.Logger, conf Config) (*Guard, error) {
	if conf.Guard.SentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: conf.Guard.SentryDsn}); err != nil {
			log.Warn("failed to initialize sentry", "error", err)
		}
	}

	kv, err := storage.OpenLevelDB(conf.Guard.StoragePath)
	if err != nil {
		return nil, err
	}

	g := &Guard{
		log:  log,
		conf: conf,
		kv:   kv,
		c:    make(chan struct{}),
	}
	g.loadModeration()
	g.loadCommands()
	g.loadAPI()

	c, err := conf.UserConfig.Config(log)
	if err != nil {
		return nil, err
	}
	c.Allower = &Allower{bans: g.bans}

	g.srv = c.New()
	g.srv.CloseOnProgramEnd()

	return g, nil
}

// loadModeration builds the durable record caches and the automod engine.
func (g *Guard) loadModeration() {
	g.players = session.NewRegistry()
	g.reports = moderation.NewReports(g.kv, g.log)
	g.bans = moderation.NewBans(g.kv, g.log)
	g.actions = moderation.NewActionLog(g.kv, g.log)
	g.engine = automod.NewEngine(g.log, g.conf.AutoMod.Profiles, g.actions, g.players)
}

// loadCommands builds the command gateway and registers the built-in
// command set.
func (g *Guard) loadCommands() {
	deps := command.Deps{
		Log:     g.log,
		OpLog:   g.log.WithGroup("audit"),
		Prefix:  g.conf.Guard.CommandPrefix,
		Players: g.players,
		Reports: g.reports,
		Bans:    g.bans,
		Actions: g.actions,
		Sync:    modsync.NewService(g.log, g.conf.Service.ModerationURL, g.conf.Service.ModerationKey),
	}
	g.commands = command.NewRegistry(g.log, g.conf.Guard.CommandPrefix, g.conf.Command.Aliases, g.conf.Command.Overrides, deps)
	command.RegisterAll(g.commands)
}

// loadAPI starts the HTTP moderation API when an address is configured.
func (g *Guard) loadAPI() {
	if g.conf.Service.APIAddress == "" {
		return
	}
	api.New(g.log, g.conf.Service.APIAddress, g.conf.Service.APIKey, g.reports, g.bans, g.actions)
}

// Engine returns the automod engine for detection checks to report into.
func (g *Guard) Engine() *automod.Engine {
	return g.engine
}

// Commands returns the command gateway, also used by the automation layer
// for programmatic dispatch.
func (g *Guard) Commands() *command.Registry {
	return g.commands
}

// Start begins the server's main loop, accepting connections and handling
// players. It blocks until the server is closed.
func (g *Guard) Start() {
	g.srv.Listen()
	go g.startTicking()

	for p := range g.srv.Accept() {
		g.accept(p)
	}

	g.Close()
}

// accept handles a new player joining the server.
func (g *Guard) accept(p *player.Player) {
	r := rank.Member
	if name, ok := g.conf.Staff.Ranks[p.XUID()]; ok {
		parsed, err := rank.Parse(name)
		if err != nil {
			g.log.Warn("invalid staff rank configured", "xuid", p.XUID(), "error", err)
		} else {
			r = parsed
		}
	}

	s := session.NewPlayer(handler.NewConn(p), r)
	s.SetWatched(lo.Contains(g.conf.Staff.Watched, p.XUID()))
	p.Handle(handler.NewPlayerHandler(s, g.players, g.commands))
}

// startTicking periodically flushes the moderation caches so that dirty
// records survive a crash.
func (g *Guard) startTicking() {
	t := time.NewTicker(flushInterval)
	defer t.Stop()

	for {
		select {
		case <-g.c:
			return
		case <-t.C:
			g.flush()
		}
	}
}

// flush ...
func (g *Guard) flush() {
	if err := g.reports.Flush(); err != nil {
		g.log.Error("failed to flush reports", "error", err)
	}
	if err := g.bans.Flush(); err != nil {
		g.log.Error("failed to flush bans", "error", err)
	}
	if err := g.actions.Flush(); err != nil {
		g.log.Error("failed to flush action log", "error", err)
	}
}

// Close closes the server, flushing all pending moderation state.
func (g *Guard) Close() {
	g.log.Debug("Flushing moderation records...")
	close(g.c)
	g.flush()

	g.log.Debug("Closing storage...")
	if err := g.kv.Close(); err != nil {
		g.log.Error("failed to close storage", "error", err)
	}
}
