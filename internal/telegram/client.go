package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/voxmind/voxmind/internal/config"
)

// ErrNoToken is returned by every call when the bot token is not configured.
var ErrNoToken = errors.New("telegram: bot token not configured")

// Client wraps the Bot API methods the webhook flows need. Bot API calls
// are bounded by the HTTP client timeout; the context is checked before
// each call and carried by file downloads.
type Client struct {
	api          *tgbotapi.BotAPI
	token        string
	fileEndpoint string
	httpClient   *http.Client
}

func NewClient(cfg config.TelegramConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	c := &Client{
		token:        cfg.BotToken,
		fileEndpoint: cfg.APIURL + "/file/bot%s/%s",
		httpClient:   httpClient,
	}
	if cfg.BotToken == "" {
		return c
	}

	// NewBotAPIWithClient calls getMe on construction; the webhook must
	// start even when Telegram is unreachable.
	c.api = &tgbotapi.BotAPI{Token: cfg.BotToken, Client: httpClient, Buffer: 100}
	c.api.SetAPIEndpoint(cfg.APIURL + "/bot%s/%s")
	return c
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) (*tgbotapi.Message, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	cfg := tgbotapi.NewMessage(chatID, text)
	cfg.ParseMode = parseMode
	if markup != nil {
		cfg.ReplyMarkup = markup
	}

	msg, err := c.api.Send(cfg)
	if err != nil {
		return nil, c.wrap("sendMessage", err)
	}
	return &msg, nil
}

func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if err := c.ready(ctx); err != nil {
		return err
	}

	cfg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	cfg.ParseMode = parseMode
	cfg.ReplyMarkup = markup

	if _, err := c.api.Request(cfg); err != nil {
		return c.wrap("editMessageText", err)
	}
	return nil
}

// GetFile resolves a file id to a download path. An empty path with a nil
// error means Telegram returned no path for the file.
func (c *Client) GetFile(ctx context.Context, fileID string) (string, error) {
	if err := c.ready(ctx); err != nil {
		return "", err
	}

	f, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", c.wrap("getFile", err)
	}
	return f.FilePath, nil
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	if err := c.ready(ctx); err != nil {
		return err
	}

	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return c.wrap("answerCallbackQuery", err)
	}
	return nil
}

func (c *Client) SetWebhook(ctx context.Context, url string) error {
	if err := c.ready(ctx); err != nil {
		return err
	}

	cfg, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	cfg.AllowedUpdates = []string{"message", "callback_query"}

	if _, err := c.api.Request(cfg); err != nil {
		return c.wrap("setWebhook", err)
	}
	return nil
}

// DownloadFile fetches the raw bytes of a file previously resolved with GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	url := fmt.Sprintf(c.fileEndpoint, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram download: %w", redact(err, c.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram download: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("telegram download read: %w", err)
	}
	return data, nil
}

func (c *Client) ready(ctx context.Context) error {
	if c.api == nil {
		return ErrNoToken
	}
	return ctx.Err()
}

// wrap keeps Bot API errors inspectable and strips the token from
// transport errors, which embed the request URL.
func (c *Client) wrap(method string, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return fmt.Errorf("telegram %s: %w", method, redact(err, c.token))
}

func redact(err error, token string) error {
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}
