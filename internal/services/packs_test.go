package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/encounter-engine/pkg/content"
)

func setupTestCache(t *testing.T) *RedisService {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cache, err := NewRedisService(mr.Addr(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func testPackBytes(t *testing.T) []byte {
	t.Helper()
	data := `{
		"heroes": [{"id": "wanderer", "name": "Wanderer", "vitality": 30, "power": 4, "defense": 2}],
		"enemies": [{"id": "husk", "name": "Husk", "vitality": 20, "power": 3, "defense": 1, "behavior": {"default_intent": "attack", "default_value": 2}}],
		"fate_cards": [{"id": "dawn", "name": "Dawn", "modifier": 2}]
	}`
	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, []byte(data)))
	raw, err := json.Marshal(map[string]interface{}{
		"name":     "test-pack",
		"version":  "1.0.0",
		"checksum": content.ChecksumData(compact.Bytes()),
		"data":     json.RawMessage(compact.Bytes()),
	})
	require.NoError(t, err)
	return raw
}

func TestPackServiceLoadAndCache(t *testing.T) {
	cache := setupTestCache(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.json"), testPackBytes(t), 0o644))

	svc := NewPackService(cache, dir, logger)
	ctx := context.Background()

	pack, err := svc.Load(ctx, "pack.json")
	require.NoError(t, err)
	assert.Equal(t, "test-pack", pack.Name)

	// The verified bytes are now served from the cache by checksum.
	cached, err := svc.ByChecksum(ctx, pack.Checksum)
	require.NoError(t, err)
	assert.Equal(t, pack.Checksum, cached.Checksum)
	assert.Len(t, cached.Data.Heroes, 1)
}

func TestPackServiceLoadMissingFile(t *testing.T) {
	cache := setupTestCache(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewPackService(cache, t.TempDir(), logger)
	_, err := svc.Load(context.Background(), "nope.json")
	assert.Error(t, err)
}

func TestPackServiceLoadSurvivesCacheFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cache := &MockCache{
		SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
			return errors.New("connection refused")
		},
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.json"), testPackBytes(t), 0o644))

	svc := NewPackService(cache, dir, logger)
	pack, err := svc.Load(context.Background(), "pack.json")
	require.NoError(t, err, "a cache write failure must not block the disk load")
	assert.Equal(t, "test-pack", pack.Name)

	require.Len(t, cache.SetCalls, 1)
	assert.Equal(t, packKey(pack.Checksum), cache.SetCalls[0].Key)
}

func TestPackServiceByChecksumPropagatesCacheError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cache := &MockCache{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			return "", errors.New("connection refused")
		},
	}

	svc := NewPackService(cache, t.TempDir(), logger)
	_, err := svc.ByChecksum(context.Background(), "deadbeef")
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, []string{packKey("deadbeef")}, cache.GetCalls)
}

func TestPackServiceByChecksumMiss(t *testing.T) {
	cache := setupTestCache(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewPackService(cache, t.TempDir(), logger)
	_, err := svc.ByChecksum(context.Background(), "deadbeef")
	assert.ErrorContains(t, err, "not cached")
}

func TestPackServiceRejectsCorruptedCacheEntry(t *testing.T) {
	cache := setupTestCache(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewPackService(cache, t.TempDir(), logger)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, packKey("deadbeef"), "{not json", 0))

	_, err := svc.ByChecksum(ctx, "deadbeef")
	assert.ErrorContains(t, err, "invalid")
}
