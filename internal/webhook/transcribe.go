package webhook

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/voxmind/voxmind/internal/llm"
)

// transcribe turns a voice message into a raw transcript shown in an edited
// placeholder message with a correction button.
func (d *Dispatcher) transcribe(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	log = log.With("chat_id", chatID)

	if d.ai == nil {
		if _, err := d.bot.SendMessage(ctx, chatID, voiceKeyError, "", nil); err != nil {
			return fmt.Errorf("send config notice: %w", err)
		}
		log.Warn("transcription skipped, ai provider not configured")
		return nil
	}

	wait, err := d.bot.SendMessage(ctx, chatID, placeholder, "", nil)
	if err != nil {
		return fmt.Errorf("send placeholder: %w", err)
	}

	filePath, err := d.bot.GetFile(ctx, msg.Voice.FileID)
	if err != nil {
		return fmt.Errorf("resolve voice file: %w", err)
	}
	if filePath == "" {
		// Nothing to download; the placeholder is left as is.
		log.Warn("voice file has no path", "file_id", msg.Voice.FileID)
		return nil
	}

	audio, err := d.bot.DownloadFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("download voice: %w", err)
	}

	res, err := d.ai.Generate(ctx, llm.GenerateRequest{Parts: []llm.Part{
		llm.TextPart(transcribePrompt),
		llm.BlobPart(audioMIMEType, audio),
	}})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	log.Info("voice transcribed",
		"provider", res.Provider,
		"audio_bytes", len(audio),
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
		"latency_ms", res.LatencyMs,
	)

	// Telegram trims message text, so the cached and rendered copies must
	// agree on whitespace.
	transcript := strings.TrimSpace(res.Text)

	if d.store != nil {
		if err := d.store.Save(ctx, chatID, int64(wait.MessageID), transcript); err != nil {
			log.Warn("transcript not cached", "error", err)
		}
	}

	text := rawLabel + transcriptSeparator + html.EscapeString(transcript)
	if err := d.bot.EditMessageText(ctx, chatID, wait.MessageID, text, tgbotapi.ModeHTML, correctKeyboard()); err != nil {
		return fmt.Errorf("edit placeholder: %w", err)
	}
	return nil
}
