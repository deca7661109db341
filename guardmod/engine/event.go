package engine

import (
	"time"
)

// MessageEvent is an inbound chat message, as delivered by whatever platform
// transport feeds the engine.
type MessageEvent struct {
	SenderID  int64     `json:"sender_id"`
	ChatID    int64     `json:"chat_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// JoinEvent is a user joining a chat.
type JoinEvent struct {
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaveEvent is a user leaving a chat.
type LeaveEvent struct {
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RaidSignal tells the caller a chat's join rate is at raid level. Emitted on
// every join while the rate holds; de-duplication is the caller's concern.
type RaidSignal struct {
	ChatID    int64     `json:"chat_id"`
	JoinCount int       `json:"join_count"`
	Timestamp time.Time `json:"timestamp"`
}
