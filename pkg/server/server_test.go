package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/tears-of-aya/pkg/attempts"
	"github.com/gonewx/tears-of-aya/pkg/config"
	"github.com/gonewx/tears-of-aya/pkg/leaderboard"
)

const testAdminToken = "s3cret"

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) (*Server, *attempts.MemoryLedger) {
	t.Helper()
	cfg := &config.ServerConfig{
		HTTP: config.HTTPConfig{
			Addr:            "127.0.0.1:0",
			AllowedOrigins:  []string{"https://aya.example"},
			ShutdownTimeout: time.Second,
		},
		Admin: config.AdminConfig{Token: testAdminToken},
	}
	if mutate != nil {
		mutate(cfg)
	}
	ledger := attempts.NewMemoryLedger()
	return New(cfg, leaderboard.NewService(leaderboard.NewMemoryRepository()), ledger), ledger
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSubmitScore(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"valid", SubmitScoreRequest{Wallet: "0xaya", Score: 42, Mode: "free"}, http.StatusCreated},
		{"empty wallet", SubmitScoreRequest{Wallet: "", Score: 1, Mode: "free"}, http.StatusBadRequest},
		{"negative score", SubmitScoreRequest{Wallet: "0xaya", Score: -3, Mode: "paid"}, http.StatusBadRequest},
		{"bad mode", SubmitScoreRequest{Wallet: "0xaya", Score: 1, Mode: "ranked"}, http.StatusBadRequest},
		{"unknown field", map[string]any{"wallet": "0xaya", "score": 1, "mode": "free", "cheat": true}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/scores", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := do(t, h, http.MethodPost, "/api/scores", SubmitScoreRequest{Wallet: "0xbee", Score: 7, Mode: "paid"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := decode[leaderboard.Entry](t, rec)
	assert.Equal(t, "0xbee", entry.Wallet)
	assert.Equal(t, 7, entry.Score)
	assert.Equal(t, "paid", entry.Mode)
}

func TestLeaderboardAndBest(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	for _, s := range []SubmitScoreRequest{
		{Wallet: "alice", Score: 30, Mode: "free"},
		{Wallet: "bob", Score: 55, Mode: "free"},
		{Wallet: "alice", Score: 80, Mode: "free"},
		{Wallet: "carol", Score: 10, Mode: "paid"},
	} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/scores", s, nil).Code)
	}

	rec := do(t, h, http.MethodGet, "/api/leaderboard?mode=free&limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[LeaderboardResponse](t, rec)
	assert.Equal(t, "free", board.Mode)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "alice", board.Entries[0].Wallet)
	assert.Equal(t, 80, board.Entries[0].Score)

	rec = do(t, h, http.MethodGet, "/api/leaderboard?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/leaderboard?mode=weekly", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/leaderboard?mode=paid", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[LeaderboardResponse](t, rec).Entries, 1)

	rec = do(t, h, http.MethodGet, "/api/scores/alice/best?mode=free", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 80, decode[leaderboard.Entry](t, rec).Score)

	rec = do(t, h, http.MethodGet, "/api/scores/nobody/best", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyLeaderboardIsArray(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"mode":"","entries":[]}`, rec.Body.String())
}

func TestAttemptsFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()
	auth := map[string]string{"Authorization": "Bearer " + testAdminToken}

	rec := do(t, h, http.MethodGet, "/api/attempts/0xaya", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[AttemptsResponse](t, rec).Remaining)

	rec = do(t, h, http.MethodPost, "/api/attempts/0xaya/consume", nil, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/attempts/0xaya/grant", GrantRequest{Count: 2}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[AttemptsResponse](t, rec).Remaining)

	rec = do(t, h, http.MethodPost, "/api/attempts/0xaya/consume", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[AttemptsResponse](t, rec).Remaining)

	rec = do(t, h, http.MethodPost, "/api/attempts/0xaya/grant", GrantRequest{Count: 0}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrantAuthorization(t *testing.T) {
	srv, ledger := newTestServer(t, nil)
	h := srv.Handler()

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"not bearer", map[string]string{"Authorization": testAdminToken}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/attempts/0xaya/grant", GrantRequest{Count: 5}, tt.header)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	n, err := ledger.Available(context.Background(), "0xaya")
	require.NoError(t, err)
	assert.Zero(t, n)

	disabled, _ := newTestServer(t, func(c *config.ServerConfig) { c.Admin.Token = "" })
	rec := do(t, disabled.Handler(), http.MethodPost, "/api/attempts/0xaya/grant", GrantRequest{Count: 5},
		map[string]string{"Authorization": "Bearer "})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec := do(t, h, http.MethodOptions, "/api/scores", nil, map[string]string{
		"Origin":                        "https://aya.example",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://aya.example", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/api/leaderboard", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	open, _ := newTestServer(t, func(c *config.ServerConfig) { c.HTTP.AllowedOrigins = []string{"*"} })
	rec = do(t, open.Handler(), http.MethodGet, "/api/leaderboard", nil, map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, do(t, srv.Handler(), http.MethodGet, "/healthz", nil, nil).Code)

	cfg := &config.ServerConfig{}
	failing := New(cfg, leaderboard.NewService(leaderboard.NewMemoryRepository()), attempts.NewMemoryLedger(),
		WithHealthCheck(func(context.Context) error { return errors.New("db down") }))
	assert.Equal(t, http.StatusServiceUnavailable, do(t, failing.Handler(), http.MethodGet, "/healthz", nil, nil).Code)
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>aya</html>"), 0o644))

	srv, _ := newTestServer(t, func(c *config.ServerConfig) { c.HTTP.StaticDir = dir })
	rec := do(t, srv.Handler(), http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aya")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
