package webhook

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startCommand    = "/start"
	correctMarker   = "correct|"
	correctCallback = correctMarker + "start"
	audioMIMEType   = "audio/ogg"

	// transcriptSeparator splits the rendered label from the transcript in
	// an edited message. It is the only hand-off between the two steps when
	// no transcript store is configured.
	transcriptSeparator = "\n\n"

	// missingTranscript stands in for the transcript when the message text
	// does not follow the label/separator convention.
	missingTranscript = "[transcript unavailable]"
)

const (
	greetingText    = "👋 سلام! من آماده‌ام.\nفقط کافیست یک <b>ویس (Voice)</b> بفرستید."
	placeholder     = "⏳..."
	callbackWait    = "Wait..."
	rawLabel        = "📝 <b>متن خام:</b>"
	correctButton   = "Correct 🇬🇧"
	voiceKeyError   = "❌ خطای تنظیمات: کلید API سرویس هوش مصنوعی در سرور ست نشده است."
	correctKeyError = "❌ کلید API سرویس هوش مصنوعی تنظیم نشده است."
	transcriptIcon  = "📝"
	correctionIcon  = "🎓"
)

const transcribePrompt = `
Listen explicitly to the audio.
It contains a mix of English and Persian.
Transcribe exactly what is said.
Write Persian parts in Persian script, and English parts in English.
Do NOT translate yet.
`

const correctPrompt = `
You are a friendly English teacher.
Task:
1. Translate any Persian parts to English.
2. Correct the grammar of the entire sentence.
3. Rewrite the final sentence in simple English (Level A1/A2).
4. Provide a brief explanation in Persian if needed.

Output Format (No Markdown, just plain text):
English: [Corrected Sentence]
Persian Meaning: [Persian Translation]
`

func correctKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(correctButton, correctCallback)),
	)
	return &markup
}

// extractTranscript returns the text after the first separator of a
// rendered transcript message, or missingTranscript when there is none.
func extractTranscript(rendered string) string {
	_, after, found := strings.Cut(rendered, transcriptSeparator)
	if !found {
		return missingTranscript
	}
	return after
}

func correctionInput(transcript string) string {
	return correctPrompt + "\nInput: " + transcript
}
