package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store mirrors edit sessions and the islands list in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
