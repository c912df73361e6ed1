package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/internal/stats"
)

type fakeWebhook struct {
	bodies []string
	err    error
}

func (f *fakeWebhook) HandleWebhook(r *http.Request) error {
	body, _ := io.ReadAll(r.Body)
	f.bodies = append(f.bodies, string(body))
	return f.err
}

func TestRoot(t *testing.T) {
	s := New(0, nil, nil, "")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "🎬 Video Downloader Bot is running!", rec.Body.String())
}

func TestHealth(t *testing.T) {
	tr := stats.New()
	tr.TrackRequest(platform.TikTok)
	s := New(0, nil, tr, t.TempDir())

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "video-downloader-bot", body["service"])
	bot, ok := body["bot"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, bot["requests"])
	assert.Contains(t, body, "system")
}

func TestHealthWithoutStats(t *testing.T) {
	s := New(0, nil, nil, "")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"healthy","service":"video-downloader-bot"}`, rec.Body.String())
}

func TestWebhook(t *testing.T) {
	wh := &fakeWebhook{}
	h := New(0, wh, nil, "").Routes()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"update_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []string{`{"update_id":1}`}, wh.bodies)
}

func TestWebhookRejects(t *testing.T) {
	wh := &fakeWebhook{}
	h := New(0, wh, nil, "").Routes()

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("update_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad request\n", rec.Body.String())
	assert.Empty(t, wh.bodies)

	wh.err = errors.New("unexpected EOF")
	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhookNotMountedForMTProto(t *testing.T) {
	rec := httptest.NewRecorder()
	New(0, nil, nil, "").Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
