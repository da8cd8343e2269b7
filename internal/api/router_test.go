package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	updates []tgbotapi.Update
	ctxErrs []error
}

func (h *recordingHandler) Handle(ctx context.Context, u tgbotapi.Update) {
	h.updates = append(h.updates, u)
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_AlwaysAcknowledges(t *testing.T) {
	updates := &recordingHandler{}
	h := NewRouter(updates, nil).Setup()

	cases := map[string]string{
		"voice":     `{"update_id":5,"message":{"message_id":1,"chat":{"id":42},"voice":{"file_id":"f"}}}`,
		"empty":     `{}`,
		"no body":   ``,
		"malformed": `{"update_id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, h, http.MethodPost, "/webhook", body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ok", rec.Body.String())
		})
	}

	// Only the decodable payloads reach the dispatcher.
	require.Len(t, updates.updates, 2)
	var voice *tgbotapi.Update
	for i := range updates.updates {
		if updates.updates[i].UpdateID == 5 {
			voice = &updates.updates[i]
		}
	}
	require.NotNil(t, voice)
	require.NotNil(t, voice.Message)
	require.NotNil(t, voice.Message.Voice)
	assert.Equal(t, "f", voice.Message.Voice.FileID)
	require.NotNil(t, voice.Message.Chat)
	assert.Equal(t, int64(42), voice.Message.Chat.ID)
}

func TestWebhook_ClientDisconnectDoesNotCancelHandling(t *testing.T) {
	updates := &recordingHandler{}
	h := NewRouter(updates, nil).Setup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body := `{"update_id":6,"message":{"message_id":1,"date":1,"chat":{"id":42},"text":"/start"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, updates.ctxErrs, 1)
	assert.NoError(t, updates.ctxErrs[0])
}

func TestHome(t *testing.T) {
	h := NewRouter(&recordingHandler{}, nil).Setup()

	rec := serve(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✅ VoxMind Bot is Running!", rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Run("no redis", func(t *testing.T) {
		h := NewRouter(&recordingHandler{}, nil).Setup()
		rec := serve(t, h, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("redis down", func(t *testing.T) {
		h := NewRouter(&recordingHandler{}, pinger{err: errors.New("connection refused")}).Setup()
		rec := serve(t, h, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("healthz", func(t *testing.T) {
		h := NewRouter(&recordingHandler{}, pinger{}).Setup()
		rec := serve(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})
}
