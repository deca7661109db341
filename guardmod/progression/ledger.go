package progression

import (
	"sort"
	"sync"
	"time"
)

// ActionKind is the category of a reward event.
type ActionKind string

const (
	ActionMessage  ActionKind = "message"
	ActionReaction ActionKind = "reaction"
	ActionInvite   ActionKind = "invite"
	ActionSupport  ActionKind = "support"
	ActionJoin     ActionKind = "join"
)

// Default XP awards per action kind.
const (
	XPPerMessage  = 1
	XPPerReaction = 1
	XPPerInvite   = 10
	XPPerSupport  = 5
	XPPerJoin     = 10
)

// XPEntry is one accepted reward event.
type XPEntry struct {
	Amount    int
	Kind      ActionKind
	Timestamp time.Time
	Preview   string
}

// UserProgress holds one user's XP state. TotalXP only increases; Level is
// always recomputed from TotalXP after a mutation, never stored independently.
type UserProgress struct {
	UserID              int64
	TotalXP             int
	Level               int
	LastMessageRewardAt time.Time
	FirstRewardAt       time.Time
	Entries             []XPEntry
}

// LevelUp reports a level transition caused by a reward. XPToNext is zero
// (with AtCeiling set) once the top level is reached.
type LevelUp struct {
	UserID    int64  `json:"user_id"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	Title     string `json:"title"`
	XPToNext  int    `json:"xp_to_next"`
	AtCeiling bool   `json:"at_ceiling"`
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  int64  `json:"user_id"`
	TotalXP int    `json:"total_xp"`
	Level   int    `json:"level"`
	Title   string `json:"title"`
}

// Stats is the derived per-user progression summary.
type Stats struct {
	UserID        int64   `json:"user_id"`
	TotalXP       int     `json:"total_xp"`
	Level         int     `json:"level"`
	Title         string  `json:"title"`
	XPToNext      int     `json:"xp_to_next"`
	AtCeiling     bool    `json:"at_ceiling"`
	Progress      float64 `json:"progress"`
	MessageCount  int     `json:"message_count"`
	ReactionCount int     `json:"reaction_count"`
	InviteCount   int     `json:"invite_count"`
	SupportCount  int     `json:"support_count"`
	JoinCount     int     `json:"join_count"`
}

// Ledger owns all per-user progression state. Safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	users    map[int64]*UserProgress
	cooldown time.Duration
}

func NewLedger(messageCooldown time.Duration) *Ledger {
	return &Ledger{
		users:    make(map[int64]*UserProgress),
		cooldown: messageCooldown,
	}
}

// Reward grants XP for an action. Message rewards are cooldown-gated: a
// message within the cooldown of the user's last accepted message reward is a
// no-op (no XP, cooldown timestamp untouched). All other kinds are ungated.
// Returns a LevelUp when the recomputed level exceeds the previous one.
func (l *Ledger) Reward(userID int64, amount int, kind ActionKind, preview string, now time.Time) *LevelUp {
	if amount <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	up, ok := l.users[userID]
	if !ok {
		up = &UserProgress{UserID: userID, Level: 1, FirstRewardAt: now}
		l.users[userID] = up
	}

	if kind == ActionMessage {
		if !up.LastMessageRewardAt.IsZero() && now.Sub(up.LastMessageRewardAt) < l.cooldown {
			return nil
		}
		up.LastMessageRewardAt = now
	}

	up.Entries = append(up.Entries, XPEntry{
		Amount:    amount,
		Kind:      kind,
		Timestamp: now,
		Preview:   preview,
	})
	up.TotalXP += amount

	oldLevel := up.Level
	up.Level = LevelFor(up.TotalXP)
	if up.Level <= oldLevel {
		return nil
	}

	gap, ok := XPToNext(up.Level)
	return &LevelUp{
		UserID:    userID,
		OldLevel:  oldLevel,
		NewLevel:  up.Level,
		Title:     TitleFor(up.Level),
		XPToNext:  gap,
		AtCeiling: !ok,
	}
}

// Level is the narrow read accessor other components use (eg, the link
// posting exemption). Unknown users are level 1.
func (l *Ledger) Level(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	up, ok := l.users[userID]
	if !ok {
		return 1
	}
	return up.Level
}

// Leaderboard ranks users by total XP descending. Ties break by earliest
// first reward, then by user ID, so the ordering is a deterministic strict
// total order.
func (l *Ledger) Leaderboard(limit int) []LeaderboardEntry {
	type row struct {
		userID        int64
		totalXP       int
		level         int
		firstRewardAt time.Time
	}

	// snapshot the ranking fields before releasing the lock; the shared
	// structs keep mutating under Reward
	l.mu.Lock()
	rows := make([]row, 0, len(l.users))
	for _, up := range l.users {
		rows = append(rows, row{
			userID:        up.UserID,
			totalXP:       up.TotalXP,
			level:         up.Level,
			firstRewardAt: up.FirstRewardAt,
		})
	}
	l.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].totalXP != rows[j].totalXP {
			return rows[i].totalXP > rows[j].totalXP
		}
		if !rows[i].firstRewardAt.Equal(rows[j].firstRewardAt) {
			return rows[i].firstRewardAt.Before(rows[j].firstRewardAt)
		}
		return rows[i].userID < rows[j].userID
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	out := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = LeaderboardEntry{
			Rank:    i + 1,
			UserID:  r.userID,
			TotalXP: r.totalXP,
			Level:   r.level,
			Title:   TitleFor(r.level),
		}
	}
	return out
}

// Stats derives the per-user summary from the XP history. Total over its
// input: unknown users get a zeroed level-1 summary.
func (l *Ledger) Stats(userID int64) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := Stats{
		UserID: userID,
		Level:  1,
		Title:  TitleFor(1),
	}
	up, ok := l.users[userID]
	if !ok {
		if gap, ok := XPToNext(1); ok {
			st.XPToNext = gap
		}
		return st
	}

	st.TotalXP = up.TotalXP
	st.Level = up.Level
	st.Title = TitleFor(up.Level)
	for _, e := range up.Entries {
		switch e.Kind {
		case ActionMessage:
			st.MessageCount++
		case ActionReaction:
			st.ReactionCount++
		case ActionInvite:
			st.InviteCount++
		case ActionSupport:
			st.SupportCount++
		case ActionJoin:
			st.JoinCount++
		}
	}

	gap, more := XPToNext(up.Level)
	if !more {
		st.AtCeiling = true
		return st
	}
	st.XPToNext = gap
	st.Progress = float64(up.TotalXP-ThresholdFor(up.Level)) / float64(gap) * 100
	return st
}
