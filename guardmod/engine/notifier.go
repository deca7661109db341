package engine

import (
	"context"

	"github.com/chathaven/warden/guardmod/progression"
	"github.com/chathaven/warden/guardmod/strikes"
)

// Interface for a type that can forward engine decisions to an external
// channel (chat notice, third-party automation, ops alerting). Implementations
// are invoked from detached background tasks; they may block on I/O but the
// engine never waits for them.
type Notifier interface {
	SendAction(ctx context.Context, action strikes.ModerationAction) error
	SendLevelUp(ctx context.Context, chatID int64, lu progression.LevelUp) error
	SendRaid(ctx context.Context, sig RaidSignal) error
}
