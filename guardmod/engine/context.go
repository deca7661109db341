package engine

import (
	"context"
	"log/slog"

	"github.com/chathaven/warden/guardmod/keyword"
	"github.com/chathaven/warden/guardmod/strikes"
)

// previewRunes is how much of a message survives into violation records.
const previewRunes = 50

// The primary interface exposed to rules. All other contexts derive from
// this "base" struct.
type BaseContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// Any errors encountered while processing methods on this struct (or
	// sub-types) get rolled up in this nullable field
	Err error
	// slog logger handle, with event-specific structured fields
	// pre-populated. Expected to never be nil.
	Logger *slog.Logger

	engine  *Engine
	effects *Effects
}

// MessageContext is what message rules evaluate against.
type MessageContext struct {
	BaseContext

	Message MessageEvent

	normalized string
}

// JoinContext is what join rules evaluate against.
type JoinContext struct {
	BaseContext

	Join JoinEvent
}

func NewMessageContext(ctx context.Context, eng *Engine, evt MessageEvent) MessageContext {
	return MessageContext{
		BaseContext: BaseContext{
			Ctx:     ctx,
			Logger:  eng.Logger.With("user", evt.SenderID, "chat", evt.ChatID),
			engine:  eng,
			effects: &Effects{},
		},
		Message:    evt,
		normalized: keyword.Normalize(evt.Text),
	}
}

func NewJoinContext(ctx context.Context, eng *Engine, evt JoinEvent) JoinContext {
	return JoinContext{
		BaseContext: BaseContext{
			Ctx:     ctx,
			Logger:  eng.Logger.With("user", evt.UserID, "chat", evt.ChatID),
			engine:  eng,
			effects: &Effects{},
		},
		Join: evt,
	}
}

// request external state via engine (indirect) ======

// InSet checks if `val` is an element of set `name`.
func (c *BaseContext) InSet(name, val string) bool {
	out, err := c.engine.Sets.InSet(c.Ctx, name, val)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return false
	}
	return out
}

// SetMembers returns the elements of the named set, in deterministic order.
func (c *BaseContext) SetMembers(name string) []string {
	out, err := c.engine.Sets.Members(c.Ctx, name)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return nil
	}
	return out
}

func (c *BaseContext) GetCount(name, val, period string) int {
	out, err := c.engine.Counters.GetCount(c.Ctx, name, val, period)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return 0
	}
	return out
}

func (c *BaseContext) GetCountDistinct(name, bucket, period string) int {
	out, err := c.engine.Counters.GetCountDistinct(c.Ctx, name, bucket, period)
	if err != nil {
		if nil == c.Err {
			c.Err = err
		}
		return 0
	}
	return out
}

// update effects (indirect) ======

func (c *BaseContext) Increment(name, val string) {
	c.effects.Increment(name, val)
}

func (c *BaseContext) IncrementDistinct(name, bucket, val string) {
	c.effects.IncrementDistinct(name, bucket, val)
}

func (c *BaseContext) AddAccountFlag(val string) {
	c.effects.AddAccountFlag(val)
}

// message helpers ======

// NormalizedText is the lower-cased, trimmed message text rules match on.
func (c *MessageContext) NormalizedText() string {
	return c.normalized
}

// SenderLevel is the sender's current progression level. The read accessor
// behind the link-posting exemption.
func (c *MessageContext) SenderLevel() int {
	return c.engine.Progress.Level(c.Message.SenderID)
}

// RecordViolation classifies the message. The first recorded violation wins;
// later calls on the same event are ignored and rule dispatch stops.
func (c *MessageContext) RecordViolation(kind strikes.ViolationKind, severity int) {
	c.effects.RecordViolation(strikes.Violation{
		UserID:    c.Message.SenderID,
		ChatID:    c.Message.ChatID,
		Kind:      kind,
		Severity:  severity,
		Timestamp: c.Message.Timestamp,
		Preview:   keyword.Preview(c.Message.Text, previewRunes),
	})
}

// Violation returns the violation recorded so far, if any.
func (c *MessageContext) Violation() *strikes.Violation {
	return c.effects.Violation
}
