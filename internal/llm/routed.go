package llm

import "context"

// RoutedProvider sends prompts carrying audio to one backend and text-only
// prompts to another, so transcription and correction can use different
// models.
type RoutedProvider struct {
	audio Provider
	text  Provider
}

func NewRoutedProvider(audio, text Provider) *RoutedProvider {
	return &RoutedProvider{audio: audio, text: text}
}

func (p *RoutedProvider) Name() string { return p.audio.Name() + "+" + p.text.Name() }

func (p *RoutedProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.HasBlob() {
		return p.audio.Generate(ctx, req)
	}
	return p.text.Generate(ctx, req)
}
