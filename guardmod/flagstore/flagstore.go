package flagstore

import (
	"context"
)

// FlagStore links string flags (private annotations like "raid-joiner") to
// user accounts, keyed by user ID.
type FlagStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Add(ctx context.Context, key string, flags []string) error
	Remove(ctx context.Context, key string, flags []string) error
}
