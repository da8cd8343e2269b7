package webhook

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/voxmind/voxmind/internal/llm"
)

// correct rewrites a transcript message with the corrected English and its
// Persian meaning.
func (d *Dispatcher) correct(ctx context.Context, log *slog.Logger, cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.Message.Chat == nil {
		// Inline-mode callbacks carry no message to edit.
		if err := d.bot.AnswerCallbackQuery(ctx, cb.ID, ""); err != nil {
			return fmt.Errorf("answer callback: %w", err)
		}
		log.Warn("correction callback without message")
		return nil
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	log = log.With("chat_id", chatID, "message_id", msgID)

	transcript := d.recoverTranscript(ctx, log, cb.Message)

	if err := d.bot.AnswerCallbackQuery(ctx, cb.ID, callbackWait); err != nil {
		// The spinner times out on its own.
		log.Warn("answer callback failed", "error", err)
	}

	if d.ai == nil {
		if _, err := d.bot.SendMessage(ctx, chatID, correctKeyError, "", nil); err != nil {
			return fmt.Errorf("send config notice: %w", err)
		}
		log.Warn("correction skipped, ai provider not configured")
		return nil
	}

	res, err := d.ai.Generate(ctx, llm.GenerateRequest{Parts: []llm.Part{
		llm.TextPart(correctionInput(transcript)),
	}})
	if err != nil {
		return fmt.Errorf("correct: %w", err)
	}
	log.Info("transcript corrected",
		"provider", res.Provider,
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
		"latency_ms", res.LatencyMs,
	)

	text := transcriptIcon + " " + html.EscapeString(transcript) +
		transcriptSeparator + correctionIcon + " " + html.EscapeString(res.Text)
	if err := d.bot.EditMessageText(ctx, chatID, msgID, text, tgbotapi.ModeHTML, nil); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// recoverTranscript prefers the cached transcript and falls back to the
// text after the first separator of the rendered message.
func (d *Dispatcher) recoverTranscript(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message) string {
	if d.store != nil {
		text, ok, err := d.store.Load(ctx, msg.Chat.ID, int64(msg.MessageID))
		switch {
		case err != nil:
			log.Warn("transcript cache unavailable", "error", err)
		case ok:
			return text
		}
	}

	transcript := extractTranscript(msg.Text)
	if transcript == missingTranscript {
		log.Warn("message text has no transcript separator")
	}
	return transcript
}
