package llm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves text prompts through chat completions and prompts
// carrying audio through Whisper transcription.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model, baseURL string, timeout time.Duration) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	for _, part := range req.Parts {
		if part.IsBlob() {
			return p.transcribe(ctx, part)
		}
	}
	return p.chat(ctx, req)
}

func (p *OpenAIProvider) chat(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	texts := make([]string, 0, len(req.Parts))
	for _, part := range req.Parts {
		texts = append(texts, part.Text)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: strings.Join(texts, "\n")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai chat: empty response")
	}

	return &GenerateResponse{
		Provider:     "openai",
		Model:        resp.Model,
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}

// transcribe ignores the text instruction: Whisper's prompt is a style hint,
// not an instruction, and it already keeps each language in its own script.
func (p *OpenAIProvider) transcribe(ctx context.Context, audio Part) (*GenerateResponse, error) {
	start := time.Now()

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio.Data),
		FilePath: "voice" + extensionFor(audio.MIMEType),
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}
	if resp.Text == "" {
		return nil, fmt.Errorf("openai transcription: empty response")
	}

	return &GenerateResponse{
		Provider:  "openai",
		Model:     openai.Whisper1,
		Text:      resp.Text,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/mpeg":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mp4", "audio/m4a":
		return ".m4a"
	default:
		return ".ogg"
	}
}
