package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	redisstore "github.com/MrSnakeDoc/islandhop/internal/store/redis"
)

const (
	// DefaultSessionTTL is how long an untouched edit session is kept
	DefaultSessionTTL = 2 * time.Hour
)

// SessionCollector drops edit sessions that have been idle for longer than
// the TTL. Redis snapshots expire on their own; the collector only removes
// their IDs from the session set.
type SessionCollector struct {
	store    *redisstore.Store
	index    *index.MemoryIndex
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewSessionCollector creates a new session collector
func NewSessionCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SessionCollector {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionCollector{
		store:    store,
		index:    idx,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection
func (sc *SessionCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sc.Collect(ctx)
			case <-sc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the collector
func (sc *SessionCollector) Stop() {
	close(sc.stopCh)
}

// Collect removes idle sessions and returns how many were dropped from
// memory.
func (sc *SessionCollector) Collect(ctx context.Context) int {
	now := sc.now()
	deleted := 0

	for _, s := range sc.index.GetAllSessions() {
		idle := now.Sub(s.TouchedAt())
		if idle < sc.ttl {
			continue
		}

		sc.index.DeleteSession(s.ID())
		if sc.store != nil {
			if err := sc.store.DeleteSession(ctx, s.ID()); err != nil {
				sc.logger.Warn("failed to delete session from redis",
					logger.String("session_id", s.ID()),
					logger.Error(err))
			}
		}

		sc.logger.Debug("garbage collected edit session",
			logger.String("session_id", s.ID()),
			logger.Int64("service_id", s.ServiceID()),
			logger.String("state", s.State().String()),
			logger.Duration("idle", idle))
		deleted++
	}

	if sc.store != nil {
		if pruned, err := sc.store.PruneSessionIDs(ctx); err != nil {
			sc.logger.Warn("failed to prune redis session set", logger.Error(err))
		} else if pruned > 0 {
			sc.logger.Debug("pruned expired session ids", logger.Int("count", pruned))
		}
	}

	if deleted > 0 {
		sc.logger.Info("session garbage collection completed",
			logger.Int("sessions_deleted", deleted),
			logger.Int("sessions_open", sc.index.SessionCount()))
	}
	return deleted
}
