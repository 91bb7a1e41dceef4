package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jwebster45206/encounter-engine/pkg/content"
)

// Cached packs are immutable by construction (the key is the checksum), so
// a long TTL is safe.
const packTTL = 24 * time.Hour

// PackService loads content packs from the data directory and caches the
// verified raw bytes by checksum. A checksum hit never touches disk.
type PackService struct {
	cache   Cache
	dataDir string
	logger  *slog.Logger
}

func NewPackService(cache Cache, dataDir string, logger *slog.Logger) *PackService {
	return &PackService{
		cache:   cache,
		dataDir: dataDir,
		logger:  logger,
	}
}

func packKey(checksum string) string {
	return "pack:" + checksum
}

// Load reads, verifies and validates a pack file from the data directory,
// then caches the raw bytes under its checksum.
func (s *PackService) Load(ctx context.Context, filename string) (*content.Pack, error) {
	path := filepath.Join(s.dataDir, filename)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content pack %s: %w", path, err)
	}
	pack, err := content.ParsePack(raw)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, packKey(pack.Checksum), string(raw), packTTL); err != nil {
			// Cache failures degrade to disk loads, never block the caller.
			s.logger.Warn("Failed to cache content pack", "checksum", pack.Checksum, "error", err)
		}
	}

	s.logger.Info("Content pack loaded", "name", pack.Name, "version", pack.Version, "checksum", pack.Checksum)
	return pack, nil
}

// ByChecksum returns a previously loaded pack from the cache. The returned
// pack re-runs full verification, so a corrupted cache entry is rejected
// rather than served.
func (s *PackService) ByChecksum(ctx context.Context, checksum string) (*content.Pack, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("no cache configured")
	}
	raw, err := s.cache.Get(ctx, packKey(checksum))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("content pack %s not cached", checksum)
	}
	pack, err := content.ParsePack([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("cached content pack %s is invalid: %w", checksum, err)
	}
	if pack.Checksum != checksum {
		return nil, fmt.Errorf("cached content pack checksum mismatch: asked %s, got %s", checksum, pack.Checksum)
	}
	return pack, nil
}
