package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Telegram TelegramConfig
	LLM      LLMConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level slog.Level
}

type TelegramConfig struct {
	BotToken   string
	APIURL     string
	WebhookURL string // optional; registered with setWebhook on startup
	Timeout    time.Duration
}

type LLMConfig struct {
	Provider string // "gemini" or "openai"

	// CorrectionProvider serves text-only prompts when set to a backend
	// other than Provider ("gemini", "openai" or "anthropic").
	CorrectionProvider string

	GeminiKey        string
	GeminiModel      string
	GeminiBaseURL    string
	OpenAIKey        string
	OpenAIModel      string
	OpenAIBaseURL    string
	AnthropicKey     string
	AnthropicModel   string
	AnthropicBaseURL string
	Timeout          time.Duration
}

// RedisConfig configures the optional transcript store. An empty Addr
// disables it.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	TranscriptTTL time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if present, is loaded first without overriding
// variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 7860)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	tgTimeout, err := getEnvDuration("TELEGRAM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_TIMEOUT: %w", err)
	}

	llmTimeout, err := getEnvDuration("LLM_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttl, err := getEnvDuration("TRANSCRIPT_TTL", 48*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCRIPT_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Log: LogConfig{
			Level: level,
		},
		Telegram: TelegramConfig{
			BotToken:   getEnv("BOT_TOKEN", ""),
			APIURL:     strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
			WebhookURL: getEnv("WEBHOOK_URL", ""),
			Timeout:    tgTimeout,
		},
		LLM: LLMConfig{
			Provider:           strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
			CorrectionProvider: strings.ToLower(getEnv("CORRECTION_PROVIDER", "")),
			GeminiKey:          getEnv("GEMINI_API_KEY", ""),
			GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			GeminiBaseURL:      getEnv("GEMINI_BASE_URL", ""),
			OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
			AnthropicKey:       getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5"),
			AnthropicBaseURL:   getEnv("ANTHROPIC_BASE_URL", ""),
			Timeout:            llmTimeout,
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            redisDB,
			TranscriptTTL: ttl,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports credentials that are missing. The service still runs
// without them; affected flows degrade with a user-facing notice.
func (c *Config) Validate() error {
	var missing []string
	if c.Telegram.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if name, key := c.LLM.keyFor(c.LLM.Provider); key == "" {
		missing = append(missing, name)
	}
	if p := c.LLM.CorrectionProvider; p != "" && p != c.LLM.Provider {
		if name, key := c.LLM.keyFor(p); key == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// keyFor returns the env var name and value of a backend's API key.
func (c LLMConfig) keyFor(provider string) (string, string) {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY", c.OpenAIKey
	case "anthropic":
		return "ANTHROPIC_API_KEY", c.AnthropicKey
	default:
		return "GEMINI_API_KEY", c.GeminiKey
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}
