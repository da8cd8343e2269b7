package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// generateContentBody is the wire shape of a generateContent request.
type generateContentBody struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				MimeType string `json:"mimeType"`
				Data     []byte `json:"data"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"contents"`
}

func newTestGemini(t *testing.T, model string, h http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), "key-1", model, srv.URL, 5*time.Second)
	require.NoError(t, err)
	return p
}

func TestGeminiGenerate_TextAndAudio(t *testing.T) {
	var got generateContentBody
	p := newTestGemini(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates":[{"content":{"role":"model","parts":[{"text":"salam "},{"text":"hello"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":3}
		}`))
	})

	resp, err := p.Generate(context.Background(), GenerateRequest{Parts: []Part{
		TextPart("transcribe"),
		BlobPart("audio/ogg", []byte{0x4f, 0x67, 0x67}),
	}})
	require.NoError(t, err)

	assert.Equal(t, "salam hello", resp.Text)
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, "gemini-1.5-flash", resp.Model)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 3, resp.OutputTokens)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "transcribe", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "audio/ogg", parts[1].InlineData.MimeType)
	assert.Equal(t, []byte("Ogg"), parts[1].InlineData.Data)
}

func TestGeminiGenerate_Errors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, "API key not valid"},
		{"blocked", http.StatusOK, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`, "prompt blocked: SAFETY"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`, "MAX_TOKENS"},
		{"bad json", http.StatusOK, `not json`, "gemini generate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestGemini(t, "m", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := p.Generate(context.Background(), GenerateRequest{Parts: []Part{TextPart("x")}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGeminiGenerate_APIErrorIsInspectable(t *testing.T) {
	p := newTestGemini(t, "m", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := p.Generate(context.Background(), GenerateRequest{Parts: []Part{TextPart("x")}})
	require.Error(t, err)

	var apiErr genai.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, "RESOURCE_EXHAUSTED", apiErr.Status)
}
