// Package contract has configuration and the interfaces between the
// pipeline and its external collaborators.
package contract

import (
	"context"

	"github.com/KrishalDhungana/NBAMind/schema"
)

// StatsProvider supplies raw player-season records for one season.
// Implementations own retries, rate limiting and caching; the pipeline
// never retries.
type StatsProvider interface {
	PlayerSeasons(ctx context.Context, season schema.SeasonID) ([]*schema.PlayerSeasonRaw, error)
}

// CacheStore persists raw provider payloads between runs.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Close() error
}
