package llm

import (
	"context"
	"fmt"

	"github.com/voxmind/voxmind/internal/config"
)

// NewProvider builds the backend selected by cfg.Provider and, when
// cfg.CorrectionProvider names a different one, routes text-only prompts
// to it. It returns ErrNotConfigured when a selected backend has no API
// key, so callers can run with AI features switched off.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	primary := cfg.Provider
	if primary == "" {
		primary = "gemini"
	}
	if primary == "anthropic" {
		return nil, fmt.Errorf("llm provider %q cannot transcribe audio; use it as the correction provider", primary)
	}

	audio, err := newBackend(ctx, cfg, primary)
	if err != nil {
		return nil, err
	}

	correction := cfg.CorrectionProvider
	if correction == "" || correction == primary {
		return audio, nil
	}

	text, err := newBackend(ctx, cfg, correction)
	if err != nil {
		return nil, fmt.Errorf("correction provider: %w", err)
	}
	return NewRoutedProvider(audio, text), nil
}

func newBackend(ctx context.Context, cfg config.LLMConfig, name string) (Provider, error) {
	switch name {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, ErrNotConfigured
		}
		p, err := NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.Timeout), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, ErrNotConfigured
		}
		return NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", name)
	}
}
