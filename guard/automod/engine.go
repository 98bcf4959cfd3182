package automod

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/smell-of-curry/pokebedrock-guard/guard/format"
	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
	"github.com/smell-of-curry/pokebedrock-guard/guard/session"
)

// systemLabel is the actor label used when a violation is not tied to a
// player.
const systemLabel = "System"

// defaultReasonTemplate is used when a profile carries no flag reason.
const defaultReasonTemplate = "{playerName} failed {checkType}. ({detailsString})"

// ActionLogger is the audit sink the engine appends detection entries to.
type ActionLogger interface {
	Append(entry moderation.ActionEntry) moderation.ActionEntry
}

// Notifier is the admin-notification channel.
type Notifier interface {
	NotifyStaff(message string, source *session.Player, state *session.ModState)
}

// Engine executes the consequences configured for detected violations.
// The action logger and notifier may be nil; a missing dependency degrades
// that one consequence with a trace instead of aborting the pipeline, so
// detection checks stay non-blocking even when subsystems are unavailable.
type Engine struct {
	log      *slog.Logger
	profiles ProfileTable
	actions  ActionLogger
	notifier Notifier
}

// NewEngine creates an engine over a validated profile table.
func NewEngine(log *slog.Logger, profiles ProfileTable, actions ActionLogger, notifier Notifier) *Engine {
	return &Engine{
		log:      log,
		profiles: profiles,
		actions:  actions,
		notifier: notifier,
	}
}

// Execute runs the consequences configured for checkType against p. p is
// nil for system-level checks; player-specific steps are then skipped, not
// errors. details may be nil.
func (e *Engine) Execute(p *session.Player, checkType string, details *orderedmap.OrderedMap[string, any]) {
	profile, ok := e.profiles[checkType]
	if !ok || !profile.Enabled {
		e.log.Debug("automod: no enabled profile, skipping", "check", checkType)
		return
	}

	label := systemLabel
	if p != nil {
		label = p.Name()
	}

	// The reason message is computed even when flagging is disabled: the
	// log step reuses it.
	reasonTemplate := defaultReasonTemplate
	if profile.Flag != nil && profile.Flag.Reason != "" {
		reasonTemplate = profile.Flag.Reason
	}
	reason := format.Message(reasonTemplate, label, checkType, details)
	detailsString := format.Details(details)

	e.flag(p, checkType, profile, reason, detailsString)
	e.logAction(label, checkType, profile, reason, detailsString)
	e.notify(p, label, checkType, profile, details)
	e.stampItemContext(p, checkType, details)
}

// flag ...
func (e *Engine) flag(p *session.Player, checkType string, profile Profile, reason, detailsString string) {
	if profile.Flag == nil {
		return
	}
	if p == nil {
		e.log.Debug("automod: system violation, skipping flag step", "check", checkType)
		return
	}

	flagType := profile.Flag.Type
	if flagType == "" {
		flagType = checkType
	}

	increment := profile.Flag.Increment
	if increment <= 0 {
		increment = 1
	}

	// Increments are applied one at a time so consumers of "this is the
	// Nth flag" observe a consistent count.
	var count int
	for i := 0; i < increment; i++ {
		count = p.State().AddFlag(flagType, reason, detailsString)
	}
	e.log.Debug("automod: flagged player", "player", p.Name(), "flag", flagType, "count", count)
}

// logAction ...
func (e *Engine) logAction(label, checkType string, profile Profile, reason, detailsString string) {
	if profile.Log == nil {
		return
	}
	if e.actions == nil {
		e.log.Debug("automod: action log unavailable, skipping log step", "check", checkType)
		return
	}

	actionType := profile.Log.ActionType
	if actionType == "" {
		actionType = "detected_" + checkType
	}
	details := profile.Log.DetailsPrefix
	if profile.Log.includeDetails() {
		details += detailsString
	}

	e.actions.Append(moderation.ActionEntry{
		AdminName:  "AutoMod",
		ActionType: actionType,
		TargetName: label,
		Details:    strings.TrimSpace(details),
		Reason:     reason,
		AutoMod:    true,
		CheckType:  checkType,
	})
}

// notify ...
func (e *Engine) notify(p *session.Player, label, checkType string, profile Profile, details *orderedmap.OrderedMap[string, any]) {
	if profile.NotifyAdmins == nil || profile.NotifyAdmins.Message == "" {
		return
	}
	if e.notifier == nil {
		e.log.Debug("automod: notifier unavailable, skipping notify step", "check", checkType)
		return
	}

	message := format.Message(profile.NotifyAdmins.Message, label, checkType, details)
	var state *session.ModState
	if p != nil {
		state = p.State()
	}
	e.notifier.NotifyStaff(message, p, state)
}

// stampItemContext ...
func (e *Engine) stampItemContext(p *session.Player, checkType string, details *orderedmap.OrderedMap[string, any]) {
	if p == nil || details == nil {
		return
	}
	itemTypeID, ok := details.Get("itemTypeId")
	if !ok {
		return
	}

	state := p.State()
	if state == nil {
		e.log.Debug("automod: moderation state unavailable, skipping item context", "player", p.Name(), "check", checkType)
		return
	}
	state.SetLastViolation(checkType, fmt.Sprint(itemTypeID))
}
