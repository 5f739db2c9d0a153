// Package redis persists search history lists in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/history"
)

// Store keeps each owner's history as one JSON array under history.Key.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed history store. A zero ttl keeps lists
// until they are cleared.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Load reads owner's entries. A missing key is an empty history.
func (s *Store) Load(ctx context.Context, owner string) ([]domain.SearchHistoryEntry, error) {
	data, err := s.client.Get(ctx, history.Key(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.SearchHistoryEntry{}, nil
		}
		return nil, fmt.Errorf("%w: redis get: %w", domain.ErrHistoryStorage, err)
	}

	var entries []domain.SearchHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode history: %w", domain.ErrHistoryStorage, err)
	}
	if len(entries) > domain.MaxHistoryEntries {
		entries = entries[:domain.MaxHistoryEntries]
	}
	return entries, nil
}

// Save replaces owner's entries and refreshes the TTL.
func (s *Store) Save(ctx context.Context, owner string, entries []domain.SearchHistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode history: %w", domain.ErrHistoryStorage, err)
	}
	if err := s.client.Set(ctx, history.Key(owner), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", domain.ErrHistoryStorage, err)
	}
	return nil
}

// Clear deletes owner's history.
func (s *Store) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, history.Key(owner)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", domain.ErrHistoryStorage, err)
	}
	return nil
}

// Ping checks the Redis connection for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
