package audit

import (
	"context"
	"sync"
	"time"
)

// MemSink collects entries in memory. Used in tests and as the fallback when
// no database is configured.
type MemSink struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemSink() *MemSink {
	return &MemSink{}
}

func (s *MemSink) Log(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemSink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
