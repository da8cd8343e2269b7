package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by NewProvider when the selected backend has
// no API key.
var ErrNotConfigured = errors.New("llm: provider not configured")

// Provider abstracts a generative-AI backend (Gemini, OpenAI, Anthropic).
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Name() string
}

// Part is one element of a prompt: either text or an inline blob.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsBlob reports whether the part carries inline binary data.
func (p Part) IsBlob() bool {
	return p.Data != nil
}

// GenerateRequest is an ordered list of prompt parts sent as a single user turn.
type GenerateRequest struct {
	Parts []Part
}

// HasBlob reports whether any part carries inline binary data.
func (r GenerateRequest) HasBlob() bool {
	for _, part := range r.Parts {
		if part.IsBlob() {
			return true
		}
	}
	return false
}

// GenerateResponse is the free-form text a backend returned.
type GenerateResponse struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Text         string `json:"text"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
}
