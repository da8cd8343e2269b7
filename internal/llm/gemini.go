package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds a Gemini API client. An empty baseURL keeps the
// SDK's public endpoint.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		if part.IsBlob() {
			parts = append(parts, genai.NewPartFromBytes(part.Data, part.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(part.Text))
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, errors.New("gemini: no candidates in response")
	}

	candidate := resp.Candidates[0]
	var sb strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("gemini: empty response (finish reason: %s)", candidate.FinishReason)
	}

	out := &GenerateResponse{
		Provider:  "gemini",
		Model:     p.model,
		Text:      sb.String(),
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if usage := resp.UsageMetadata; usage != nil {
		out.InputTokens = int(usage.PromptTokenCount)
		out.OutputTokens = int(usage.CandidatesTokenCount)
	}
	return out, nil
}
