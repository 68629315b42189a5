package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	redisstore "github.com/MrSnakeDoc/islandhop/internal/store/redis"
)

// IslandLister is the islands endpoint of the Persistence API.
type IslandLister interface {
	ListIslands(ctx context.Context) ([]domain.Island, error)
}

// IslandsReloader periodically refreshes the islands reference list
type IslandsReloader struct {
	source        IslandLister
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewIslandsReloader creates a new islands reloader
func NewIslandsReloader(
	source IslandLister,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *IslandsReloader {
	return &IslandsReloader{
		source:        source,
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads once, then reloads on every tick and manual trigger. A failed
// initial load is logged, not returned: workflows fall back to a direct
// fetch while the index is empty.
func (ir *IslandsReloader) Start(ctx context.Context) {
	if err := ir.Reload(ctx); err != nil {
		ir.logger.Warn("initial islands load failed", logger.Error(err))
	}

	ticker := time.NewTicker(ir.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ir.Reload(ctx); err != nil {
					ir.logger.Error("failed to reload islands", logger.Error(err))
				}
			case <-ir.manualTrigger:
				ir.logger.Info("manual islands reload triggered")
				if err := ir.Reload(ctx); err != nil {
					ir.logger.Error("failed to reload islands", logger.Error(err))
				}
			case <-ir.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reloader
func (ir *IslandsReloader) Stop() {
	close(ir.stopCh)
}

// Reload fetches the islands and updates index + Redis. On error the index
// keeps its last good list.
func (ir *IslandsReloader) Reload(ctx context.Context) error {
	ir.logger.Debug("reloading islands")

	islands, err := ir.source.ListIslands(ctx)
	if err != nil {
		return fmt.Errorf("failed to list islands: %w", err)
	}

	ir.index.UpdateIslands(islands)
	ir.logger.Info("islands reloaded", logger.Int("count", len(islands)))

	// Redis is best effort, the memory index is the primary source
	if ir.store != nil {
		if err := ir.store.SaveIslands(ctx, islands); err != nil {
			ir.logger.Warn("failed to save islands to redis", logger.Error(err))
		}
	}
	return nil
}
