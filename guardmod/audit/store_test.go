package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.Default()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "audit.db"), logger)
	require.NoError(t, err)
	return s
}

func TestStoreRoundtrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	s := testStore(t)

	require.NoError(s.Log(ctx, NewEntry(KindViolation, 101, -100, map[string]any{"kind": "spam", "severity": 1}, "buy now!!")))
	require.NoError(s.Log(ctx, NewEntry(KindWarn, 101, -100, map[string]any{"strike": 1}, "")))
	require.NoError(s.Log(ctx, NewEntry(KindJoin, 202, -200, nil, "")))
	require.NoError(s.Close())

	byUser, err := s.ByUser(ctx, 101, 10)
	require.NoError(err)
	assert.Equal(2, len(byUser))
	// newest first
	assert.Equal(KindWarn, byUser[0].Kind)
	assert.Equal(KindViolation, byUser[1].Kind)
	assert.Contains(byUser[1].Details, "spam")
	assert.Equal("buy now!!", byUser[1].Preview)

	byChat, err := s.ByChat(ctx, -200, 10)
	require.NoError(err)
	assert.Equal(1, len(byChat))
	assert.Equal(int64(202), byChat[0].UserID)

	recent, err := s.RecentViolations(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(err)
	assert.Equal(2, len(recent))
}

func TestExport(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	s := testStore(t)
	require.NoError(s.Log(ctx, NewEntry(KindBan, 101, -100, map[string]any{"reason": "3 strikes"}, "")))
	require.NoError(s.Close())

	raw, err := s.ExportJSON(ctx)
	require.NoError(err)
	var entries []Entry
	require.NoError(json.Unmarshal(raw, &entries))
	assert.Equal(1, len(entries))
	assert.Equal(KindBan, entries[0].Kind)

	csvOut, err := s.ExportCSV(ctx)
	require.NoError(err)
	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	assert.Equal(2, len(lines))
	assert.Contains(lines[0], "user_id")
	assert.Contains(lines[1], "ban")
}

func TestNewEntryDetails(t *testing.T) {
	assert := assert.New(t)

	e := NewEntry(KindMute, 1, 2, map[string]any{"duration": 3600}, "preview")
	assert.JSONEq(`{"duration": 3600}`, e.Details)

	e = NewEntry(KindMute, 1, 2, nil, "")
	assert.Empty(e.Details)
}

func TestMemSink(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemSink()
	assert.NoError(s.Log(ctx, NewEntry(KindLevelUp, 1, 2, nil, "")))
	assert.NoError(s.Log(ctx, NewEntry(KindRaid, 0, 2, nil, "")))

	entries := s.Entries()
	assert.Equal(2, len(entries))
	assert.False(entries[0].CreatedAt.IsZero())
}
