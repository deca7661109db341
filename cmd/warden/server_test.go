package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chathaven/warden/guardmod/engine"
	"github.com/chathaven/warden/guardmod/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	eng := engine.EngineTestFixture()
	return NewServer(&eng, nil, slog.Default())
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echoContentType, echoJSONType)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

const (
	echoContentType = "Content-Type"
	echoJSONType    = "application/json"
)

func TestMessageIngest(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/events/message",
		`{"sender_id": 100, "chat_id": -100, "text": "BUY NOW while supplies last"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Action *struct {
			Kind        string `json:"kind"`
			StrikeCount int    `json:"strike_count"`
		} `json:"action"`
		Dropped bool `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Action)
	assert.Equal("warn", res.Action.Kind)
	assert.Equal(1, res.Action.StrikeCount)
	assert.False(res.Dropped)
}

func TestMessageIngestValidation(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/events/message", `{"text": "hello"}`)
	assert.Equal(http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/events/message", `not json`)
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestJoinIngest(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/events/join", `{"user_id": 200, "chat_id": -100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Raid    *json.RawMessage     `json:"raid"`
		LevelUp *progression.LevelUp `json:"level_up"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	// a single join grants XP but is nowhere near the next level
	assert.Nil(res.Raid)
	assert.Nil(res.LevelUp)
	assert.Equal(10, srv.engine.Progress.Stats(200).TotalXP)
}

func TestLeaderboardEndpoint(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		srv.engine.Progress.Reward(int64(500+i), 10*(i+1), progression.ActionSupport, "", base)
	}

	rec := doJSON(t, srv, http.MethodGet, "/leaderboard?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []progression.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(int64(502), rows[0].UserID)
	assert.Equal(1, rows[0].Rank)

	// the first response is cached, later rewards are not visible yet
	srv.engine.Progress.Reward(999, 1000, progression.ActionSupport, "", base)
	rec = doJSON(t, srv, http.MethodGet, "/leaderboard?limit=2", "")
	var cached []progression.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cached))
	assert.Equal(rows, cached)
}

func TestUserStatsEndpoint(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	srv.engine.Progress.Reward(300, 42, progression.ActionInvite, "", base)

	rec := doJSON(t, srv, http.MethodGet, "/users/300/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats progression.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(42, stats.TotalXP)
	assert.Equal(1, stats.Level)

	rec = doJSON(t, srv, http.MethodGet, "/users/abc/stats", "")
	assert.Equal(http.StatusBadRequest, rec.Code)
}

func TestUserRecordEndpoint(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/users/404/record", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	out := doJSON(t, srv, http.MethodPost, "/events/message",
		fmt.Sprintf(`{"sender_id": 300, "chat_id": -100, "text": %q}`, "buy now"))
	require.Equal(t, http.StatusOK, out.Code)

	rec = doJSON(t, srv, http.MethodGet, "/users/300/record", "")
	assert.Equal(http.StatusOK, rec.Code)
}

func TestChatSettingsEndpoints(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/chats/-100/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cs struct {
		SpamFilterEnabled bool `json:"spam_filter_enabled"`
		AntiRaidEnabled   bool `json:"anti_raid_enabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cs))
	assert.True(cs.SpamFilterEnabled)

	rec = doJSON(t, srv, http.MethodPut, "/chats/-100/settings",
		`{"spam_filter_enabled": false, "anti_raid_enabled": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// the overridden chat lets the spam keyword through
	out := doJSON(t, srv, http.MethodPost, "/events/message",
		`{"sender_id": 700, "chat_id": -100, "text": "buy now"}`)
	require.Equal(t, http.StatusOK, out.Code)
	var res struct {
		Action *json.RawMessage `json:"action"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &res))
	assert.Nil(res.Action)

	rec = doJSON(t, srv, http.MethodDelete, "/chats/-100/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodGet, "/chats/-100/settings", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cs))
	assert.True(cs.SpamFilterEnabled)
}

func TestExportWithoutStore(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/export", "")
	assert.Equal(http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/violations/recent", "")
	assert.Equal(http.StatusNotFound, rec.Code)
}
