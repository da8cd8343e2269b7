package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/voxmind/voxmind/internal/llm"
)

// Bot is the part of the Telegram Bot API the flows use.
type Bot interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) (*tgbotapi.Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) error
	GetFile(ctx context.Context, fileID string) (string, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// TranscriptStore optionally remembers transcripts by the message showing them.
// Message ids are widened to int64 to match chat ids in store keys.
type TranscriptStore interface {
	Save(ctx context.Context, chatID, messageID int64, text string) error
	Load(ctx context.Context, chatID, messageID int64) (string, bool, error)
}

// Dispatcher routes one Telegram update to the matching flow. It never
// returns an error: failures are logged and the webhook is acknowledged
// regardless.
type Dispatcher struct {
	bot   Bot
	ai    llm.Provider
	store TranscriptStore
}

// NewDispatcher wires the flows. ai may be nil, in which case both flows
// reply with a configuration notice instead of calling a model. store may
// be nil.
func NewDispatcher(bot Bot, ai llm.Provider, store TranscriptStore) *Dispatcher {
	return &Dispatcher{bot: bot, ai: ai, store: store}
}

type action int

const (
	actionNone action = iota
	actionCorrect
	actionGreet
	actionTranscribe
)

func (a action) String() string {
	switch a {
	case actionCorrect:
		return "correct"
	case actionGreet:
		return "greet"
	case actionTranscribe:
		return "transcribe"
	default:
		return "none"
	}
}

// classify applies the dispatch rules in order; the first match wins.
func classify(u tgbotapi.Update) action {
	if cb := u.CallbackQuery; cb != nil {
		if strings.HasPrefix(cb.Data, correctMarker) {
			return actionCorrect
		}
		return actionNone
	}
	if msg := u.Message; msg != nil && msg.Chat != nil {
		if msg.Text == startCommand {
			return actionGreet
		}
		if msg.Voice != nil {
			return actionTranscribe
		}
	}
	return actionNone
}

// Handle processes a single update to completion.
func (d *Dispatcher) Handle(ctx context.Context, u tgbotapi.Update) {
	act := classify(u)
	if act == actionNone {
		slog.Debug("update ignored", "update_id", u.UpdateID)
		return
	}

	log := slog.With("trace_id", uuid.NewString(), "update_id", u.UpdateID, "action", act.String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("update handler panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	var err error
	switch act {
	case actionCorrect:
		err = d.correct(ctx, log, u.CallbackQuery)
	case actionGreet:
		_, err = d.bot.SendMessage(ctx, u.Message.Chat.ID, greetingText, tgbotapi.ModeHTML, nil)
	case actionTranscribe:
		err = d.transcribe(ctx, log, u.Message)
	}

	if err != nil {
		log.Error("update handling failed", "error", err)
		return
	}
	log.Info("update handled")
}
