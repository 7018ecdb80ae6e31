// Package cache provides the resolution-candidate snapshot cache. Invoice
// import resolves every row against the full candidate list; caching the
// snapshot keeps a multi-row import from re-reading the catalog per row.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"magazyn/internal/domain/catalog"
	"magazyn/pkg/logger"
)

const candidatesKey = "magazyn:resolution:candidates"

// CandidateLister is the catalog slice the cache fronts.
type CandidateLister interface {
	ResolutionCandidates(ctx context.Context) ([]catalog.Candidate, error)
}

// RedisCandidates caches the candidate snapshot in Redis with a TTL.
// Redis failures degrade to direct catalog reads, never to errors.
type RedisCandidates struct {
	client *redis.Client
	source CandidateLister
	ttl    time.Duration
}

// NewRedisCandidates creates the cache. A zero ttl defaults to one minute.
func NewRedisCandidates(client *redis.Client, source CandidateLister, ttl time.Duration) *RedisCandidates {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCandidates{client: client, source: source, ttl: ttl}
}

// Candidates returns the cached snapshot, refreshing it from the catalog
// on a miss.
func (c *RedisCandidates) Candidates(ctx context.Context) ([]catalog.Candidate, error) {
	raw, err := c.client.Get(ctx, candidatesKey).Bytes()
	if err == nil {
		var cached []catalog.Candidate
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Warn(ctx, "corrupt candidate snapshot in cache, refreshing")
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "candidate cache read failed", "error", err)
	}

	candidates, err := c.source.ResolutionCandidates(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(candidates); err == nil {
		if err := c.client.Set(ctx, candidatesKey, raw, c.ttl).Err(); err != nil {
			logger.Warn(ctx, "candidate cache write failed", "error", err)
		}
	}

	return candidates, nil
}

// Invalidate drops the cached snapshot.
func (c *RedisCandidates) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, candidatesKey).Err(); err != nil {
		logger.Warn(ctx, "candidate cache invalidation failed", "error", err)
	}
	return nil
}

// DirectCandidates reads the catalog on every call. Used when Redis is not
// configured and in tests.
type DirectCandidates struct {
	source CandidateLister
}

// NewDirectCandidates creates the passthrough source.
func NewDirectCandidates(source CandidateLister) *DirectCandidates {
	return &DirectCandidates{source: source}
}

// Candidates reads the snapshot from the catalog.
func (c *DirectCandidates) Candidates(ctx context.Context) ([]catalog.Candidate, error) {
	return c.source.ResolutionCandidates(ctx)
}

// Invalidate is a no-op: there is nothing cached.
func (c *DirectCandidates) Invalidate(ctx context.Context) error {
	return nil
}
