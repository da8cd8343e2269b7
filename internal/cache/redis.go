package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const transcriptKeyPrefix = "voxmind:transcript"

// TranscriptStore keeps raw transcripts keyed by the Telegram message that
// displays them, so the correction step does not depend on parsing the
// rendered message text.
type TranscriptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranscriptStore(client *redis.Client, ttl time.Duration) *TranscriptStore {
	return &TranscriptStore{client: client, ttl: ttl}
}

func transcriptKey(chatID, messageID int64) string {
	return fmt.Sprintf("%s:%d:%d", transcriptKeyPrefix, chatID, messageID)
}

func (s *TranscriptStore) Save(ctx context.Context, chatID, messageID int64, text string) error {
	key := transcriptKey(chatID, messageID)
	if err := s.client.Set(ctx, key, text, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Load returns the stored transcript. A missing entry is not an error.
func (s *TranscriptStore) Load(ctx context.Context, chatID, messageID int64) (string, bool, error) {
	key := transcriptKey(chatID, messageID)
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *TranscriptStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
