package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultIslandsTTL bounds how stale a cached islands list may get when the
// reloader stops refreshing it.
const DefaultIslandsTTL = 48 * time.Hour

// SaveIslands caches the islands list
func (s *Store) SaveIslands(ctx context.Context, islands []domain.Island) error {
	data, err := json.Marshal(islands)
	if err != nil {
		return fmt.Errorf("failed to marshal islands: %w", err)
	}
	if err := s.client.Set(ctx, IslandsKey(), data, DefaultIslandsTTL).Err(); err != nil {
		return fmt.Errorf("failed to save islands: %w", err)
	}
	return nil
}

// GetIslands returns the cached islands list, empty when nothing is cached
func (s *Store) GetIslands(ctx context.Context) ([]domain.Island, error) {
	data, err := s.client.Get(ctx, IslandsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Island{}, nil
		}
		return nil, fmt.Errorf("failed to get islands: %w", err)
	}

	var islands []domain.Island
	if err := json.Unmarshal(data, &islands); err != nil {
		return nil, fmt.Errorf("failed to unmarshal islands: %w", err)
	}
	return islands, nil
}
