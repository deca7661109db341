package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultQueueDepth = 1024

// Store persists entries to a gorm-managed database. Writes are decoupled
// from callers through a bounded queue and a single writer goroutine: Log
// never blocks, and entries are dropped (and counted) when the queue is full.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger

	queue chan Entry
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// OpenSQLite opens (or creates) a sqlite-backed store at the given path.
// Gorm's own logging is routed through slog.
func OpenSQLite(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: slogGorm.New(slogGorm.WithLogger(logger)),
	})
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	return NewStore(db, logger)
}

func NewStore(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating audit schema: %w", err)
	}
	s := &Store{
		db:     db,
		logger: logger,
		queue:  make(chan Entry, defaultQueueDepth),
	}
	s.wg.Add(1)
	go s.run()
	return s, nil
}

func (s *Store) run() {
	defer s.wg.Done()
	for e := range s.queue {
		if err := s.db.Create(&e).Error; err != nil {
			auditWriteErrorCount.Inc()
			s.logger.Error("audit write failed", "kind", e.Kind, "err", err)
		}
	}
}

// Log enqueues the entry for persistence. Never blocks; on a full queue the
// entry is dropped and the drop counter incremented.
func (s *Store) Log(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	select {
	case s.queue <- e:
		return nil
	default:
		auditDroppedCount.Inc()
		return fmt.Errorf("audit queue full, entry dropped")
	}
}

// Close drains the queue and stops the writer. Further Log calls panic.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
	return nil
}

// ByUser returns the most recent entries for a user, newest first.
func (s *Store) ByUser(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").Limit(limit).
		Find(&out).Error
	return out, err
}

// ByChat returns the most recent entries for a chat, newest first.
func (s *Store) ByChat(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("id desc").Limit(limit).
		Find(&out).Error
	return out, err
}

// RecentViolations returns enforcement-related entries (violation, warn,
// mute, ban) since the given time, newest first.
func (s *Store) RecentViolations(ctx context.Context, since time.Time, limit int) ([]Entry, error) {
	var out []Entry
	err := s.db.WithContext(ctx).
		Where("kind IN ? AND created_at > ?", []Kind{KindViolation, KindWarn, KindMute, KindBan}, since).
		Order("id desc").Limit(limit).
		Find(&out).Error
	return out, err
}
