package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/chathaven/warden/guardmod/audit"
	"github.com/chathaven/warden/guardmod/countstore"
	"github.com/chathaven/warden/guardmod/flagstore"
	"github.com/chathaven/warden/guardmod/keyword"
	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/raid"
	"github.com/chathaven/warden/guardmod/setstore"
	"github.com/chathaven/warden/guardmod/strikes"
)

// Runtime for executing rules, managing moderation and progression state,
// and emitting decisions.
//
// All fields are expected to be non-nil except Audit and Notifier, which are
// optional.
type Engine struct {
	Logger   *slog.Logger
	Config   Config
	Settings *SettingsStore
	Rules    RuleSet
	Strikes  *strikes.Ledger
	Progress *progression.Ledger
	Raids    *raid.Detector
	Sets     setstore.SetStore
	Counters countstore.CountStore
	Flags    flagstore.FlagStore
	Audit    audit.Sink
	Notifier Notifier
}

// MessageResult is the engine's decision for one inbound message. At most
// one of Action and LevelUp is set; Dropped means the sender is currently
// banned or muted and the message was ignored entirely.
type MessageResult struct {
	Action  *strikes.ModerationAction `json:"action,omitempty"`
	LevelUp *progression.LevelUp      `json:"level_up,omitempty"`
	Dropped bool                      `json:"dropped"`
}

// JoinResult is the engine's decision for one inbound join.
type JoinResult struct {
	Raid    *RaidSignal          `json:"raid,omitempty"`
	LevelUp *progression.LevelUp `json:"level_up,omitempty"`
}

// ProcessMessage runs the full decision path for a message: classification,
// then either strike escalation (violations earn no XP) or XP reward. The
// ledger mutation is committed before any background side effect (audit,
// notification) is spawned, and those effects are never awaited.
func (eng *Engine) ProcessMessage(ctx context.Context, evt MessageEvent) (res MessageResult, outErr error) {
	start := time.Now()
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("event processing exception", "err", r, "user", evt.SenderID, "chat", evt.ChatID)
			eventErrorCount.WithLabelValues("message").Inc()
		}
		eventProcessDuration.WithLabelValues("message").Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.WithLabelValues("message").Inc()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	// banned or muted senders get nothing: no rules, no XP
	if eng.Strikes.IsBanned(evt.SenderID) || eng.Strikes.IsMuted(evt.SenderID, evt.Timestamp) {
		res.Dropped = true
		return res, nil
	}

	c := NewMessageContext(ctx, eng, evt)
	if eng.chatSettings(evt.ChatID).SpamFilterEnabled {
		if err := eng.Rules.CallMessageRules(&c); err != nil {
			eventErrorCount.WithLabelValues("message").Inc()
			return res, err
		}
		if c.Err != nil {
			// store lookups failed; the rules that ran degraded to no-match,
			// which is the documented failure mode. log and continue.
			c.Logger.Warn("rule execution error", "err", c.Err)
		}
	}

	if v := c.effects.Violation; v != nil {
		action := eng.Strikes.Record(*v)
		c.effects.Increment("violation", string(v.Kind))
		c.effects.IncrementDistinct("violators", itoa(v.ChatID), itoa(v.UserID))
		eng.persistEffects(ctx, v.UserID, c.effects)
		violationCount.WithLabelValues(string(v.Kind)).Inc()
		actionCount.WithLabelValues(string(action.Kind)).Inc()
		c.Logger.Info("violation", "kind", v.Kind, "severity", v.Severity, "action", action.Kind, "strikes", action.StrikeCount)

		eng.dispatchViolation(*v, action)
		res.Action = &action
		return res, nil
	}

	lu := eng.Progress.Reward(evt.SenderID, progression.XPPerMessage, progression.ActionMessage,
		keyword.Preview(evt.Text, previewRunes), evt.Timestamp)
	eng.persistEffects(ctx, evt.SenderID, c.effects)
	if lu != nil {
		levelUpCount.Inc()
		c.Logger.Info("level up", "old", lu.OldLevel, "new", lu.NewLevel)
		eng.dispatchLevelUp(evt.ChatID, *lu)
	}
	res.LevelUp = lu
	return res, nil
}

// ProcessJoin runs the decision path for a join: raid-window observation,
// then the join XP reward. A raid signal does not suppress the reward or the
// welcome path; those are independent consumers of the same event.
func (eng *Engine) ProcessJoin(ctx context.Context, evt JoinEvent) (res JoinResult, outErr error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("event processing exception", "err", r, "user", evt.UserID, "chat", evt.ChatID)
			eventErrorCount.WithLabelValues("join").Inc()
		}
		eventProcessDuration.WithLabelValues("join").Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.WithLabelValues("join").Inc()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	c := NewJoinContext(ctx, eng, evt)
	if eng.chatSettings(evt.ChatID).AntiRaidEnabled && eng.Raids.ObserveJoin(evt.ChatID, evt.Timestamp) {
		sig := RaidSignal{
			ChatID:    evt.ChatID,
			JoinCount: eng.Raids.ActiveJoins(evt.ChatID, evt.Timestamp),
			Timestamp: evt.Timestamp,
		}
		c.effects.AddAccountFlag("raid-joiner")
		c.effects.Increment("raid", itoa(evt.ChatID))
		raidDetectedCount.Inc()
		c.Logger.Warn("raid level join rate", "joins", sig.JoinCount)
		eng.dispatchRaid(sig)
		res.Raid = &sig
	}

	if err := eng.Rules.CallJoinRules(&c); err != nil {
		eventErrorCount.WithLabelValues("join").Inc()
		return res, err
	}

	lu := eng.Progress.Reward(evt.UserID, progression.XPPerJoin, progression.ActionJoin, "", evt.Timestamp)
	eng.persistEffects(ctx, evt.UserID, c.effects)
	if lu != nil {
		levelUpCount.Inc()
		eng.dispatchLevelUp(evt.ChatID, *lu)
	}
	res.LevelUp = lu

	eng.auditAsync(audit.NewEntry(audit.KindJoin, evt.UserID, evt.ChatID, nil, ""))
	return res, nil
}

// ProcessLeave records a departure in the audit trail. Leaves grant no XP
// and feed no detector; the trail is what lets operators correlate a raid's
// joins with the mass exit that usually follows it.
func (eng *Engine) ProcessLeave(ctx context.Context, evt LeaveEvent) {
	eventProcessCount.WithLabelValues("leave").Inc()
	eng.auditAsync(audit.NewEntry(audit.KindLeave, evt.UserID, evt.ChatID, nil, ""))
}

// RewardReaction grants reaction XP. Ungated by the message cooldown.
func (eng *Engine) RewardReaction(ctx context.Context, userID, chatID int64, ts time.Time) *progression.LevelUp {
	lu := eng.Progress.Reward(userID, progression.XPPerReaction, progression.ActionReaction, "", ts)
	if lu != nil {
		levelUpCount.Inc()
		eng.dispatchLevelUp(chatID, *lu)
	}
	return lu
}

// RewardInvite grants invite XP, credited when an invited user sticks around.
func (eng *Engine) RewardInvite(ctx context.Context, userID, chatID int64, ts time.Time) *progression.LevelUp {
	lu := eng.Progress.Reward(userID, progression.XPPerInvite, progression.ActionInvite, "", ts)
	if lu != nil {
		levelUpCount.Inc()
		eng.dispatchLevelUp(chatID, *lu)
	}
	return lu
}

// RewardSupport grants XP for a resolved support interaction.
func (eng *Engine) RewardSupport(ctx context.Context, userID, chatID int64, ts time.Time) *progression.LevelUp {
	lu := eng.Progress.Reward(userID, progression.XPPerSupport, progression.ActionSupport, "", ts)
	if lu != nil {
		levelUpCount.Inc()
		eng.dispatchLevelUp(chatID, *lu)
	}
	return lu
}
