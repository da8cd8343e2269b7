package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ErrAudioUnsupported is returned for prompts carrying inline audio, which
// the Messages API does not accept.
var ErrAudioUnsupported = errors.New("llm: provider does not accept audio")

const anthropicMaxTokens = 1024

// AnthropicProvider serves text-only prompts through the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(apiKey, model, baseURL string, timeout time.Duration) *AnthropicProvider {
	if model == "" {
		model = string(anthropic.ModelClaudeHaiku4_5)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsBlob() {
			return nil, fmt.Errorf("anthropic: %w (%s)", ErrAudioUnsupported, part.MIMEType)
		}
		blocks = append(blocks, anthropic.NewTextBlock(part.Text))
	}

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic generate: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("anthropic: empty response (stop reason: %s)", resp.StopReason)
	}

	return &GenerateResponse{
		Provider:     "anthropic",
		Model:        p.model,
		Text:         sb.String(),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}
