package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	redisstore "github.com/MrSnakeDoc/islandhop/internal/store/redis"
)

// RedisSyncer warms the memory index from Redis on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the cached islands list into the memory index. Sessions are
// not preloaded; they are restored lazily on first request.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing islands from redis to memory")

	islands, err := rs.store.GetIslands(ctx)
	if err != nil {
		return err
	}

	if len(islands) == 0 {
		rs.logger.Info("no islands found in redis")
		return nil
	}

	rs.index.UpdateIslands(islands)

	rs.logger.Info("synced islands from redis",
		logger.Int("count", len(islands)))

	return nil
}
