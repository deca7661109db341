// Package audit is the write-only event trail for moderation and progression
// decisions. The engine treats it as best-effort: a failed or dropped write
// is logged and counted, never surfaced back into the decision path.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Kind tags an audit entry with the event category.
type Kind string

const (
	KindJoin      Kind = "join"
	KindLeave     Kind = "leave"
	KindWarn      Kind = "warn"
	KindMute      Kind = "mute"
	KindBan       Kind = "ban"
	KindViolation Kind = "violation"
	KindLevelUp   Kind = "level_up"
	KindRaid      Kind = "raid"
	KindError     Kind = "error"
)

// Entry is one audit record. Details holds event-specific fields as a JSON
// object, so the schema never needs migrating for new detail keys.
type Entry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Kind      Kind      `gorm:"index" json:"kind"`
	UserID    int64     `gorm:"index" json:"user_id"`
	ChatID    int64     `gorm:"index" json:"chat_id"`
	Details   string    `json:"details,omitempty"`
	Preview   string    `json:"preview,omitempty"`
}

// NewEntry builds an entry, marshalling details to JSON. Marshal failures
// degrade to an empty details blob rather than erroring: audit is always
// best-effort.
func NewEntry(kind Kind, userID, chatID int64, details map[string]any, preview string) Entry {
	e := Entry{
		Kind:    kind,
		UserID:  userID,
		ChatID:  chatID,
		Preview: preview,
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			e.Details = string(raw)
		}
	}
	return e
}

// Sink accepts audit entries. Implementations must not block the caller on
// I/O.
type Sink interface {
	Log(ctx context.Context, e Entry) error
}
