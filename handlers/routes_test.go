package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	updates []tgbotapi.Update
}

func (s *recordingSink) Submit(_ context.Context, update tgbotapi.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, update)
	return nil
}

func newTestApp(t *testing.T, f *fixture) (*fiber.App, *recordingSink) {
	t.Helper()
	f.cfg.AdminAPIToken = "admin-token"
	f.cfg.WebhookURL = "https://bot.example.com"
	f.cfg.WebhookSecret = "hook-secret"

	sink := &recordingSink{}
	app := fiber.New()
	SetupRoutes(app, f.cfg, f.store, sink)
	return app, sink
}

func TestRoutes_Health(t *testing.T) {
	f := newFixture(t)
	app, _ := newTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_AdminRequiresToken(t *testing.T) {
	f := newFixture(t)
	app, _ := newTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["moderation_mode"])
	assert.Equal(t, float64(3), body["reward_threshold"])
	assert.Equal(t, float64(5), body["spam_window_seconds"])
}

func TestRoutes_TopReferrers(t *testing.T) {
	f := newFixture(t)
	app, _ := newTestApp(t, f)
	f.private(t, 10, "alice", "/start")
	f.private(t, 20, "bob", "/start 10")

	req := httptest.NewRequest(http.MethodGet, "/admin/top-referrers?limit=5", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"telegram_id":10`)
	assert.NotContains(t, string(raw), `"telegram_id":20`)

	req = httptest.NewRequest(http.MethodGet, "/admin/top-referrers?limit=0", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutes_Webhook(t *testing.T) {
	f := newFixture(t)
	app, sink := newTestApp(t, f)
	payload := `{"update_id":42,"message":{"message_id":1,"chat":{"id":10,"type":"private"},"from":{"id":10},"text":"hi"}}`

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/telegram/webhook/wrong", strings.NewReader(payload)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, sink.updates)

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook/hook-secret", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sink.updates, 1)
	assert.Equal(t, 42, sink.updates[0].UpdateID)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/telegram/webhook/hook-secret", strings.NewReader("{")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
