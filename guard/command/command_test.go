package command_test

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smell-of-curry/pokebedrock-guard/guard/command"
	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
	"github.com/smell-of-curry/pokebedrock-guard/guard/rank"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
	"github.com/smell-of-curry/pokebedrock-guard/guard/storage"
)

type conn struct {
	name        string
	messages    []string
	disconnects []string
}

func (c *conn) Name() string { return c.name }
func (c *conn) XUID() string { return "xuid-" + strings.ToLower(c.name) }
func (c *conn) Message(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}
func (c *conn) Disconnect(message string) {
	c.disconnects = append(c.disconnects, message)
}

func (c *conn) lastMessage() string {
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1]
}

func (c *conn) allMessages() string {
	return strings.Join(c.messages, "\n")
}

type env struct {
	commands *command.Registry
	players  *session.Registry
	reports  *moderation.Reports
	bans     *moderation.Bans
	actions  *moderation.ActionLog
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv(t *testing.T, aliases map[string]string, overrides map[string]bool) *env {
	t.Helper()
	log := discard()
	kv := storage.NewMemory()

	e := &env{
		players: session.NewRegistry(),
		reports: moderation.NewReports(kv, log),
		bans:    moderation.NewBans(kv, log),
		actions: moderation.NewActionLog(kv, log),
	}
	deps := command.Deps{
		Log:     log,
		OpLog:   log,
		Prefix:  "-",
		Players: e.players,
		Reports: e.reports,
		Bans:    e.bans,
		Actions: e.actions,
	}
	e.commands = command.NewRegistry(log, "-", aliases, overrides, deps)
	command.RegisterAll(e.commands)
	return e
}

func (e *env) join(name string, r rank.Rank) (*session.Player, *conn) {
	c := &conn{name: name}
	p := session.NewPlayer(c, r)
	e.players.Add(p)
	return p, c
}

func (e *env) actionTypes() []string {
	types := []string{}
	for _, entry := range e.actions.All() {
		types = append(types, entry.ActionType)
	}
	return types
}

func TestHandleChat_NonPrefixedPassesThrough(t *testing.T) {
	e := newEnv(t, nil, nil)
	p, c := e.join("Alice", rank.Member)

	assert.False(t, e.commands.HandleChat("hello everyone", p))
	assert.Empty(t, c.messages)
}

func TestHandleChat_BarePrefixShowsUsage(t *testing.T) {
	e := newEnv(t, nil, nil)
	p, c := e.join("Alice", rank.Member)

	assert.True(t, e.commands.HandleChat("-", p))
	assert.Contains(t, c.lastMessage(), "-help")
}

func TestHandleChat_UnknownCommand(t *testing.T) {
	e := newEnv(t, nil, nil)
	p, c := e.join("Alice", rank.Member)

	assert.True(t, e.commands.HandleChat("-frobnicate", p))
	assert.Contains(t, c.lastMessage(), "Unknown command")
}

func TestHandleChat_DisabledMatchesUnknownExactly(t *testing.T) {
	e := newEnv(t, nil, map[string]bool{"kick": false})
	p1, c1 := e.join("Alice", rank.Owner)
	p2, c2 := e.join("Bella", rank.Owner)

	// A disabled command must not leak its existence: the response is
	// bit-for-bit the unknown-command response.
	assert.True(t, e.commands.HandleChat("-kick Bob", p1))
	assert.True(t, e.commands.HandleChat("-frobnicate", p2))
	require.NotEmpty(t, c1.messages)
	assert.Equal(t, c2.lastMessage(), c1.lastMessage())
}

func TestHandleChat_OverrideCanEnable(t *testing.T) {
	e := newEnv(t, nil, map[string]bool{"kick": true})
	p, _ := e.join("Alice", rank.Moderator)
	_, target := e.join("Bob", rank.Member)

	assert.True(t, e.commands.HandleChat("-kick Bob spamming", p))
	require.Len(t, target.disconnects, 1)
}

func TestHandleChat_CaseInsensitiveName(t *testing.T) {
	e := newEnv(t, nil, nil)
	p, c := e.join("Alice", rank.Member)

	assert.True(t, e.commands.HandleChat("-HELP", p))
	assert.Contains(t, c.lastMessage(), "Available commands")
}

func TestHandleChat_AliasResolution(t *testing.T) {
	e := newEnv(t, map[string]string{"b": "ban"}, nil)
	p, _ := e.join("Alice", rank.Owner)
	_, target := e.join("Bob", rank.Member)

	assert.True(t, e.commands.HandleChat("-b Bob", p))
	require.Len(t, target.disconnects, 1)
}

func TestHandleChat_PermissionDenied(t *testing.T) {
	e := newEnv(t, nil, nil)
	p, c := e.join("Alice", rank.Member)
	e.join("Bob", rank.Member)

	assert.True(t, e.commands.HandleChat("-ban Bob", p))
	assert.Contains(t, c.lastMessage(), "permission")
	assert.Empty(t, e.bans.All())
}

func TestHandleChat_PanicIsolatedAndAudited(t *testing.T) {
	e := newEnv(t, nil, nil)
	e.commands.Register(command.Definition{
		Name: "explode", Syntax: "explode", Description: "", Rank: rank.Member, Enabled: true,
	}, func(command.Invocation, []string, command.Deps) {
		panic("boom")
	})
	p, c := e.join("Alice", rank.Member)

	assert.True(t, e.commands.HandleChat("-explode now", p))
	assert.Contains(t, c.lastMessage(), "internal error")

	all := e.actions.All()
	require.Len(t, all, 1)
	assert.Equal(t, "command_error", all[0].ActionType)
	assert.Equal(t, "explode", all[0].TargetName)
	assert.Equal(t, "Alice", all[0].AdminName)
	assert.Equal(t, "now", all[0].Details)
	assert.Equal(t, "boom", all[0].Reason)
}

func TestRegister_DuplicateOverwrites(t *testing.T) {
	e := newEnv(t, nil, nil)
	var ran bool
	e.commands.Register(command.Definition{
		Name: "help", Syntax: "help", Description: "", Rank: rank.Member, Enabled: true,
	}, func(command.Invocation, []string, command.Deps) {
		ran = true
	})
	p, _ := e.join("Alice", rank.Member)

	e.commands.HandleChat("-help", p)
	assert.True(t, ran)
}

func TestBan_Success(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, issuerConn := e.join("Alice", rank.Owner)
	_, targetConn := e.join("Bob", rank.Member)
	_, staffConn := e.join("Mod", rank.Moderator)

	assert.True(t, e.commands.HandleChat("-ban Bob 7d griefing the spawn", issuer))

	record, ok := e.bans.ActiveBan("xuid-bob")
	require.True(t, ok)
	assert.Equal(t, "griefing the spawn", record.Reason)
	assert.Equal(t, "Alice", record.BannedBy)
	assert.False(t, record.AutoMod)
	assert.InDelta(t, time.Now().Add(7*24*time.Hour).UnixMilli(), record.UnbanTime, float64(time.Minute.Milliseconds()))

	require.Len(t, targetConn.disconnects, 1)
	assert.Contains(t, targetConn.disconnects[0], "griefing the spawn")
	assert.Contains(t, targetConn.disconnects[0], "Alice")
	assert.Contains(t, issuerConn.allMessages(), "Banned Bob")
	require.NotEmpty(t, staffConn.messages)
	assert.Contains(t, staffConn.lastMessage(), "banned")

	require.Len(t, e.actions.All(), 1)
	entry := e.actions.All()[0]
	assert.Equal(t, "ban", entry.ActionType)
	assert.Equal(t, "Bob", entry.TargetName)
	assert.Equal(t, "7d", entry.Duration)
}

func TestBan_PermanentByDefault(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, _ := e.join("Alice", rank.Owner)
	_, targetConn := e.join("Bob", rank.Member)

	e.commands.HandleChat("-ban Bob", issuer)

	record, ok := e.bans.ActiveBan("xuid-bob")
	require.True(t, ok)
	assert.Equal(t, moderation.Permanent, record.UnbanTime)
	assert.Equal(t, "Banned by an operator.", record.Reason)
	require.Len(t, targetConn.disconnects, 1)
	assert.Contains(t, targetConn.disconnects[0], "permanent")
}

func TestBan_NoArgsShowsUsage(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)

	e.commands.HandleChat("-ban", issuer)

	assert.Contains(t, c.lastMessage(), "Usage")
	assert.Empty(t, e.bans.All())
	assert.Empty(t, e.actions.All())
}

func TestBan_TargetNotFound(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)

	e.commands.HandleChat("-ban Ghost", issuer)

	assert.Contains(t, c.lastMessage(), "not found")
	assert.Empty(t, e.bans.All())
}

func TestBan_InvalidDuration(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)
	e.join("Bob", rank.Member)

	for _, d := range []string{"0d", "-5m", "soon"} {
		e.commands.HandleChat("-ban Bob "+d+" griefing", issuer)
		assert.Contains(t, c.lastMessage(), "Invalid duration")
	}
	assert.Empty(t, e.bans.All())
}

func TestBan_SelfBanRejected(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)

	e.commands.HandleChat("-ban Alice", issuer)

	assert.Contains(t, c.lastMessage(), "yourself")
	assert.Empty(t, e.bans.All())
}

func TestBan_HierarchyEnforced(t *testing.T) {
	e := newEnv(t, nil, nil)
	adminIssuer, adminConn := e.join("Adm", rank.Admin)
	e.join("Boss", rank.Owner)
	e.join("Adm2", rank.Admin)

	// An admin may ban neither an owner nor a fellow admin.
	e.commands.HandleChat("-ban Boss", adminIssuer)
	assert.Empty(t, e.bans.All())
	assert.Contains(t, adminConn.lastMessage(), "Owners cannot be banned")

	e.commands.HandleChat("-ban Adm2", adminIssuer)
	assert.Empty(t, e.bans.All())
	assert.Contains(t, adminConn.lastMessage(), "Only the owner")
}

func TestBan_OwnerMayBanStaff(t *testing.T) {
	e := newEnv(t, nil, nil)
	owner, _ := e.join("Boss", rank.Owner)
	_, adminConn := e.join("Adm", rank.Admin)

	e.commands.HandleChat("-ban Adm 1d abuse", owner)

	_, ok := e.bans.ActiveBan("xuid-adm")
	assert.True(t, ok)
	assert.Len(t, adminConn.disconnects, 1)
}

func TestBan_OwnerMayNotBanOwner(t *testing.T) {
	e := newEnv(t, nil, nil)
	owner, c := e.join("Boss", rank.Owner)
	e.join("Boss2", rank.Owner)

	e.commands.HandleChat("-ban Boss2", owner)

	assert.Contains(t, c.lastMessage(), "Owners cannot be banned")
	assert.Empty(t, e.bans.All())
}

func TestBan_AutoModInvocation(t *testing.T) {
	e := newEnv(t, nil, nil)
	_, targetConn := e.join("Bob", rank.Member)

	// The automation path has a nil issuer and bypasses the hierarchy.
	e.commands.Run("ban", command.Invocation{AutoMod: true, CheckType: "fly"}, []string{"Bob"})

	record, ok := e.bans.ActiveBan("xuid-bob")
	require.True(t, ok)
	assert.Equal(t, "AutoMod", record.BannedBy)
	assert.True(t, record.AutoMod)
	assert.Equal(t, "fly", record.CheckType)
	assert.Equal(t, "Unfair advantage: fly", record.Reason)
	assert.Len(t, targetConn.disconnects, 1)

	require.Len(t, e.actions.All(), 1)
	assert.True(t, e.actions.All()[0].AutoMod)
}

func TestBan_AutoModCanBanStaff(t *testing.T) {
	e := newEnv(t, nil, nil)
	e.join("Adm", rank.Admin)

	e.commands.Run("ban", command.Invocation{AutoMod: true, CheckType: "speed"}, []string{"Adm"})

	_, ok := e.bans.ActiveBan("xuid-adm")
	assert.True(t, ok)
}

func TestUnban(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)
	e.join("Bob", rank.Member)

	e.commands.HandleChat("-ban Bob 7d griefing", issuer)
	require.NotEmpty(t, e.bans.All())

	e.commands.HandleChat("-unban Bob", issuer)
	assert.Contains(t, c.lastMessage(), "Unbanned Bob")
	_, ok := e.bans.ActiveBan("xuid-bob")
	assert.False(t, ok)
	assert.Equal(t, []string{"unban", "ban"}, e.actionTypes())
}

func TestUnban_NoActiveBan(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Alice", rank.Owner)

	e.commands.HandleChat("-unban Ghost", issuer)
	assert.Contains(t, c.lastMessage(), "No active ban")
}

func TestKick(t *testing.T) {
	e := newEnv(t, nil, nil)
	issuer, c := e.join("Mod", rank.Moderator)
	_, targetConn := e.join("Bob", rank.Member)

	e.commands.HandleChat("-kick Bob stop spamming", issuer)

	require.Len(t, targetConn.disconnects, 1)
	assert.Contains(t, targetConn.disconnects[0], "stop spamming")
	assert.Contains(t, c.lastMessage(), "Kicked Bob")
	assert.Equal(t, []string{"kick"}, e.actionTypes())
	assert.Empty(t, e.bans.All())
}

func TestReport(t *testing.T) {
	e := newEnv(t, nil, nil)
	reporter, c := e.join("Alice", rank.Member)
	e.join("Bob", rank.Member)
	_, staffConn := e.join("Mod", rank.Moderator)

	assert.True(t, e.commands.HandleChat("-report Bob using kill aura", reporter))

	assert.Contains(t, c.lastMessage(), "Report filed")
	all := e.reports.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Alice", all[0].ReporterName)
	assert.Equal(t, "Bob", all[0].ReportedName)
	assert.Equal(t, "using kill aura", all[0].Reason)
	require.NotEmpty(t, staffConn.messages)
	assert.Contains(t, staffConn.lastMessage(), "kill aura")
}

func TestReport_SelfRejected(t *testing.T) {
	e := newEnv(t, nil, nil)
	reporter, c := e.join("Alice", rank.Member)

	e.commands.HandleChat("-report Alice cheating", reporter)
	assert.Contains(t, c.lastMessage(), "yourself")
	assert.Empty(t, e.reports.All())
}

func TestReport_MissingReason(t *testing.T) {
	e := newEnv(t, nil, nil)
	reporter, c := e.join("Alice", rank.Member)

	e.commands.HandleChat("-report Bob", reporter)
	assert.Contains(t, c.lastMessage(), "Usage")
	assert.Empty(t, e.reports.All())
}

func TestHelp_FiltersByRank(t *testing.T) {
	e := newEnv(t, nil, nil)
	member, memberConn := e.join("Alice", rank.Member)
	admin, adminConn := e.join("Adm", rank.Admin)

	e.commands.HandleChat("-help", member)
	assert.NotContains(t, memberConn.lastMessage(), "-ban")
	assert.Contains(t, memberConn.lastMessage(), "-report")

	e.commands.HandleChat("-help", admin)
	assert.Contains(t, adminConn.lastMessage(), "-ban")
	assert.Contains(t, adminConn.lastMessage(), "-kick")
}

func TestHelp_OmitsDisabled(t *testing.T) {
	e := newEnv(t, nil, map[string]bool{"kick": false})
	admin, c := e.join("Adm", rank.Admin)

	e.commands.HandleChat("-help", admin)
	assert.NotContains(t, c.lastMessage(), "-kick")
}
