package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"
)

// ExportJSON dumps the full audit trail as a JSON array, oldest first.
func (s *Store) ExportJSON(ctx context.Context) ([]byte, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return json.MarshalIndent(entries, "", "  ")
}

// ExportCSV dumps the full audit trail as CSV, oldest first.
func (s *Store) ExportCSV(ctx context.Context) ([]byte, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "created_at", "kind", "user_id", "chat_id", "details", "preview"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		rec := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.CreatedAt.Format(time.RFC3339),
			string(e.Kind),
			strconv.FormatInt(e.UserID, 10),
			strconv.FormatInt(e.ChatID, 10),
			e.Details,
			e.Preview,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
