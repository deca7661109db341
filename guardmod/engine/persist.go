package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/chathaven/warden/guardmod/audit"
	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/strikes"
)

const (
	backgroundEffectTimeout = 10 * time.Second
	auditEffectName         = "audit"
)

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// persistEffects flushes collected counter increments and account flags.
// Failures are logged, not returned: by this point the ledger mutation is
// committed and nothing rolls it back.
func (eng *Engine) persistEffects(ctx context.Context, userID int64, eff *Effects) {
	for _, ref := range eff.CounterIncrements {
		if err := eng.Counters.Increment(ctx, ref.Name, ref.Val); err != nil {
			eng.Logger.Error("persisting counter", "name", ref.Name, "err", err)
		}
	}
	for _, ref := range eff.CounterDistinctIncrements {
		if err := eng.Counters.IncrementDistinct(ctx, ref.Name, ref.Bucket, ref.Val); err != nil {
			eng.Logger.Error("persisting distinct counter", "name", ref.Name, "err", err)
		}
	}
	if len(eff.AccountFlags) > 0 {
		if err := eng.Flags.Add(ctx, itoa(userID), eff.AccountFlags); err != nil {
			eng.Logger.Error("persisting account flags", "user", userID, "err", err)
		}
	}
}

// background spawns a detached task for a post-commit side effect. The task
// gets its own deadline-bound context; failures go to the log and the audit
// sink, never back into the decision path. Failed audit writes are only
// logged, so a broken sink cannot feed itself error entries.
func (eng *Engine) background(name string, f func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				eng.Logger.Error("background effect panic", "effect", name, "err", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundEffectTimeout)
		defer cancel()
		if err := f(ctx); err != nil {
			eng.Logger.Error("background effect failed", "effect", name, "err", err)
			if name != auditEffectName {
				eng.auditAsync(audit.NewEntry(audit.KindError, 0, 0, map[string]any{
					"effect": name,
					"error":  err.Error(),
				}, ""))
			}
		}
	}()
}

func (eng *Engine) auditAsync(e audit.Entry) {
	if eng.Audit == nil {
		return
	}
	eng.background(auditEffectName, func(ctx context.Context) error {
		return eng.Audit.Log(ctx, e)
	})
}

func (eng *Engine) dispatchViolation(v strikes.Violation, action strikes.ModerationAction) {
	eng.auditAsync(audit.NewEntry(audit.KindViolation, v.UserID, v.ChatID, map[string]any{
		"kind":     v.Kind,
		"severity": v.Severity,
	}, v.Preview))
	eng.auditAsync(audit.NewEntry(actionAuditKind(action.Kind), action.UserID, action.ChatID, map[string]any{
		"reason":  action.Reason,
		"strikes": action.StrikeCount,
	}, ""))
	if eng.Notifier != nil {
		eng.background("notify-action", func(ctx context.Context) error {
			return eng.Notifier.SendAction(ctx, action)
		})
	}
}

func (eng *Engine) dispatchLevelUp(chatID int64, lu progression.LevelUp) {
	eng.auditAsync(audit.NewEntry(audit.KindLevelUp, lu.UserID, chatID, map[string]any{
		"old_level": lu.OldLevel,
		"new_level": lu.NewLevel,
		"title":     lu.Title,
	}, ""))
	if eng.Notifier != nil {
		eng.background("notify-levelup", func(ctx context.Context) error {
			return eng.Notifier.SendLevelUp(ctx, chatID, lu)
		})
	}
}

func (eng *Engine) dispatchRaid(sig RaidSignal) {
	eng.auditAsync(audit.NewEntry(audit.KindRaid, 0, sig.ChatID, map[string]any{
		"join_count": sig.JoinCount,
	}, ""))
	if eng.Notifier != nil {
		eng.background("notify-raid", func(ctx context.Context) error {
			return eng.Notifier.SendRaid(ctx, sig)
		})
	}
}

func actionAuditKind(k strikes.ActionKind) audit.Kind {
	switch k {
	case strikes.ActionWarn:
		return audit.KindWarn
	case strikes.ActionMute:
		return audit.KindMute
	case strikes.ActionBan:
		return audit.KindBan
	}
	return audit.KindViolation
}
