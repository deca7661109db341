// Package countstore tracks moderation event counters (violations per kind,
// raid joins per chat, distinct violators per chat) in total, daily and
// hourly buckets. Backends: in-process map, redis.
package countstore

import (
	"context"
	"fmt"
	"time"
)

const (
	PeriodTotal = "total"
	PeriodDay   = "day"
	PeriodHour  = "hour"
)

var allPeriods = []string{PeriodTotal, PeriodDay, PeriodHour}

type CountStore interface {
	GetCount(ctx context.Context, name, val, period string) (int, error)
	Increment(ctx context.Context, name, val string) error
	GetCountDistinct(ctx context.Context, name, bucket, period string) (int, error)
	IncrementDistinct(ctx context.Context, name, bucket, val string) error
}

// bucketKey builds the storage key for one counter in one period. Day and
// hour buckets embed a UTC timestamp so they roll over naturally; an
// unknown period collapses to the total bucket.
func bucketKey(name, val, period string) string {
	switch period {
	case PeriodDay:
		return fmt.Sprintf("%s/%s/%s", name, val, time.Now().UTC().Format(time.DateOnly))
	case PeriodHour:
		return fmt.Sprintf("%s/%s/%s", name, val, time.Now().UTC().Format("2006-01-02T15"))
	default:
		return fmt.Sprintf("%s/%s", name, val)
	}
}
