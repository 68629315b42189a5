package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no snapshot exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// SaveSession stores a session snapshot with ttl
func (s *Store) SaveSession(ctx context.Context, snap editor.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SessionKey(snap.ID), data, ttl)
	pipe.SAdd(ctx, AllSessionsKey(), snap.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session snapshot by ID
func (s *Store) GetSession(ctx context.Context, id string) (editor.Snapshot, error) {
	data, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return editor.Snapshot{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return editor.Snapshot{}, fmt.Errorf("failed to get session: %w", err)
	}

	var snap editor.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return editor.Snapshot{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return snap, nil
}

// DeleteSession removes a session snapshot
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, SessionKey(id))
	pipe.SRem(ctx, AllSessionsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneSessionIDs drops IDs whose snapshot has expired from the session
// set and returns how many were removed.
func (s *Store) PruneSessionIDs(ctx context.Context) (int, error) {
	ids, err := s.client.SMembers(ctx, AllSessionsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get session IDs: %w", err)
	}

	removed := 0
	for _, id := range ids {
		n, err := s.client.Exists(ctx, SessionKey(id)).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to check session %s: %w", id, err)
		}
		if n > 0 {
			continue
		}
		if err := s.client.SRem(ctx, AllSessionsKey(), id).Err(); err != nil {
			return removed, fmt.Errorf("failed to remove session from set: %w", err)
		}
		removed++
	}
	return removed, nil
}
