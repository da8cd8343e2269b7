package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*TranscriptStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTranscriptStore(client, ttl), mr
}

func TestTranscriptStore_SaveLoad(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 42, 7, "سلام I am fine"))
	assert.True(t, mr.Exists("voxmind:transcript:42:7"))

	text, ok, err := store.Load(ctx, 42, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "سلام I am fine", text)
}

func TestTranscriptStore_Missing(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	text, ok, err := store.Load(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestTranscriptStore_Expires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, 2, "hello"))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Load(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTranscriptStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	mr.Close()

	_, _, err := store.Load(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}
