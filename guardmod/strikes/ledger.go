package strikes

import (
	"fmt"
	"sync"
	"time"
)

const strikeLifetime = 7 * 24 * time.Hour

// Ledger owns all per-user moderation records and the escalation policy.
// Safe for concurrent use; every mutation happens under one lock so strike
// counting and flag updates are a single atomic step per violation.
type Ledger struct {
	mu      sync.Mutex
	records map[int64]*Record

	threshold    int
	muteDuration time.Duration
}

func NewLedger(threshold int, muteDuration time.Duration) *Ledger {
	if threshold < 1 {
		threshold = 1
	}
	return &Ledger{
		records:      make(map[int64]*Record),
		threshold:    threshold,
		muteDuration: muteDuration,
	}
}

// Record appends a strike for the violation and returns the escalation
// decision. Policy, in order:
//
//   - severity >= 3, or strike count >= threshold: ban (terminal)
//   - strike count >= half the threshold (rounded up): mute
//   - otherwise: warn
//
// Rounding the mute threshold up means the first strike is always a warning
// for thresholds of three or more.
//
// The strike count used is the full historical count, not the
// expiry-filtered one.
func (l *Ledger) Record(v Violation) ModerationAction {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[v.UserID]
	if !ok {
		rec = &Record{UserID: v.UserID}
		l.records[v.UserID] = rec
	}

	now := v.Timestamp
	rec.Strikes = append(rec.Strikes, Strike{
		UserID:    v.UserID,
		Violation: v,
		CreatedAt: now,
		ExpiresAt: now.Add(strikeLifetime),
	})
	count := len(rec.Strikes)

	action := ModerationAction{
		UserID:      v.UserID,
		ChatID:      v.ChatID,
		StrikeCount: count,
		Violation:   v.Kind,
	}

	switch {
	case v.Severity >= SeverityCritical || count >= l.threshold:
		rec.Banned = true
		action.Kind = ActionBan
		if v.Severity >= SeverityCritical {
			action.Reason = fmt.Sprintf("%s violation (severity %d)", v.Kind, v.Severity)
		} else {
			action.Reason = fmt.Sprintf("%d strikes reached ban threshold %d", count, l.threshold)
		}
	case count >= (l.threshold+1)/2:
		rec.Muted = true
		rec.MuteExpires = now.Add(l.muteDuration)
		action.Kind = ActionMute
		action.MuteUntil = rec.MuteExpires
		action.Reason = fmt.Sprintf("%s violation, strike %d of %d", v.Kind, count, l.threshold)
	default:
		rec.WarningCount++
		action.Kind = ActionWarn
		action.Reason = fmt.Sprintf("%s violation, strike %d of %d", v.Kind, count, l.threshold)
	}

	return action
}

// IsBanned reports the ledger's declared ban state for the user.
func (l *Ledger) IsBanned(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	return ok && rec.Banned
}

// IsMuted reports whether the user is muted as of the given time.
func (l *Ledger) IsMuted(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	return ok && rec.IsMuted(now)
}

// Get returns a copy of the user's record, or false if no violation has ever
// been recorded for them.
func (l *Ledger) Get(userID int64) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	if !ok {
		return Record{}, false
	}
	out := *rec
	out.Strikes = make([]Strike, len(rec.Strikes))
	copy(out.Strikes, rec.Strikes)
	return out, true
}

// Reset clears the user's ban/mute flags and strike history. External
// moderator action, not part of the automatic escalation path.
func (l *Ledger) Reset(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, userID)
}
