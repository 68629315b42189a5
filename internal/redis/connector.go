package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectOptions defines the Redis client and its startup retry policy.
type ConnectOptions struct {
	Addr           string        // Redis address (ex: "localhost:6379")
	User           string        // Optional username
	Password       string        // Optional password
	RedisDB        int           // Redis DB number
	DialTimeout    time.Duration // Redis dial timeout
	ReadTimeout    time.Duration // Redis read timeout
	WriteTimeout   time.Duration // Redis write timeout
	PoolSize       int           // Redis connection pool size
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries, doubled after each failure
	MaxWait        time.Duration // Cap on the wait between retries (ex: 10s)
	PingTimeout    time.Duration // Timeout for each ping attempt (ex: 2s)
	WarnThreshold  int           // Attempts logged at warn before switching to error
}

func (o ConnectOptions) validate() error {
	for name, d := range map[string]time.Duration{
		"ConnectTimeout": o.ConnectTimeout,
		"RetryInterval":  o.RetryInterval,
		"MaxWait":        o.MaxWait,
		"PingTimeout":    o.PingTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", name, d)
		}
	}
	if o.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// New creates a Redis client and blocks until it answers a ping or
// ConnectTimeout elapses, backing off exponentially between attempts.
// Edit sessions and the islands list only mirror to Redis, so callers
// usually log the error and carry on without it.
func New(opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		log.Error("invalid redis options", logger.Error(err))
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := connectWithRetry(client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// connectWithRetry pings until success or until the total timeout elapses.
func connectWithRetry(client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis", logger.Duration("timeout", opts.ConnectTimeout))
	start := time.Now()
	wait := opts.RetryInterval

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("connected to redis")
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable - failed to connect after timeout",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", opts.ConnectTimeout),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts (timeout: %v): %w",
				opts.Addr, attempt, opts.ConnectTimeout, err)

		case <-timer.C:
			logRetry(log, attempt, timeLeft(ctx), wait, opts.WarnThreshold, err)
			wait *= 2
			if wait > opts.MaxWait {
				wait = opts.MaxWait
			}
		}
	}
}

func logRetry(log logger.Logger, attempt int, remaining, nextRetry time.Duration, warnThreshold int, err error) {
	fields := []logger.Field{
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", nextRetry),
		logger.Error(err),
	}
	switch {
	case remaining < 10*time.Second:
		log.Error("redis still down - retrying but timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= warnThreshold:
		log.Warn("redis connection failed, retrying", fields...)
	default:
		log.Error("redis still unavailable - connection attempts failing", fields...)
	}
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
