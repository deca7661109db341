package strikes

import (
	"fmt"
	"time"
)

// ViolationKind identifies the rule a message broke. Typed rather than
// free-form strings so escalation branches can be checked exhaustively.
type ViolationKind string

const (
	KindSpam        ViolationKind = "spam"
	KindScam        ViolationKind = "scam"
	KindAdvertising ViolationKind = "advertising"
	KindRepetitive  ViolationKind = "repetitive"
	KindExplicit    ViolationKind = "explicit"
	KindRaid        ViolationKind = "raid"
	KindInviteSpam  ViolationKind = "invite_spam"
)

func (k ViolationKind) Valid() bool {
	switch k {
	case KindSpam, KindScam, KindAdvertising, KindRepetitive, KindExplicit, KindRaid, KindInviteSpam:
		return true
	}
	return false
}

// Severity levels. Anything at SeverityCritical triggers an immediate ban
// regardless of strike count.
const (
	SeverityLow      = 1
	SeverityMedium   = 2
	SeverityCritical = 3
)

// A single classified rule infraction. Immutable once created.
type Violation struct {
	UserID    int64         `json:"user_id"`
	ChatID    int64         `json:"chat_id"`
	Kind      ViolationKind `json:"kind"`
	Severity  int           `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
	Preview   string        `json:"preview,omitempty"`
}

// The recorded consequence of one violation. ExpiresAt is nominal: the
// escalation policy counts every historical strike (see Ledger.Record), but
// the expiry is kept so operator tooling can show the recent-only view.
type Strike struct {
	UserID    int64
	Violation Violation
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Per-user moderation state. Created lazily on first violation. Strikes only
// accumulate; ban and mute flags are set by the escalation policy and cleared
// only by external reset (mute additionally lapses by timestamp comparison).
type Record struct {
	UserID       int64
	Strikes      []Strike
	WarningCount int
	Banned       bool
	Muted        bool
	MuteExpires  time.Time
}

// IsMuted reports whether the record's mute is still in force at the given
// time. Expiry is lazy: nothing clears the flag, reads just compare.
func (r *Record) IsMuted(now time.Time) bool {
	return r.Muted && now.Before(r.MuteExpires)
}

// ActiveStrikes counts strikes whose nominal expiry is still in the future.
// Not consulted by the escalation policy.
func (r *Record) ActiveStrikes(now time.Time) int {
	n := 0
	for _, s := range r.Strikes {
		if s.ExpiresAt.After(now) {
			n++
		}
	}
	return n
}

// ActionKind is the enforcement decision for a violation.
type ActionKind string

const (
	ActionWarn ActionKind = "warn"
	ActionMute ActionKind = "mute"
	ActionBan  ActionKind = "ban"
)

// ModerationAction tells the transport layer what to enforce. The ledger
// itself never calls the platform; "banned" here is declared intent.
type ModerationAction struct {
	Kind        ActionKind    `json:"kind"`
	UserID      int64         `json:"user_id"`
	ChatID      int64         `json:"chat_id"`
	StrikeCount int           `json:"strike_count"`
	Reason      string        `json:"reason"`
	MuteUntil   time.Time     `json:"mute_until,omitempty"`
	Violation   ViolationKind `json:"violation"`
}

func (a ModerationAction) String() string {
	return fmt.Sprintf("%s user=%d chat=%d strikes=%d (%s)", a.Kind, a.UserID, a.ChatID, a.StrikeCount, a.Reason)
}
