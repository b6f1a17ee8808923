// Package valkeyadapter keeps request rate limits in Valkey so they hold across
// every API instance.
package valkeyadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

const defaultKeyPrefix = "delivery:ratelimit"

// Store is satisfied by echo's RateLimiterStore.
type Store interface {
	Allow(identifier string) (bool, error)
}

// RateLimiterStore is a fixed-window counter: every identifier may make
// Limit requests per Window. Counters live in keys named
// "<prefix>:<identifier>:<window start>" and expire on their own.
//
// When Valkey cannot be reached the decision is delegated to the fallback
// store, or the request is allowed when there is none.
type RateLimiterStore struct {
	client   valkey.Client
	limit    int64
	window   time.Duration
	prefix   string
	timeout  time.Duration
	fallback Store
	logger   *slog.Logger
	now      func() time.Time
}

// RateLimiterConfig configures RateLimiterStore.
type RateLimiterConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// Timeout bounds one Valkey round trip.
	Timeout time.Duration
}

// NewClient connects to a single Valkey node.
func NewClient(addr string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return client, nil
}

func NewRateLimiterStore(
	client valkey.Client,
	cfg RateLimiterConfig,
	fallback Store,
	logger *slog.Logger,
) (*RateLimiterStore, error) {
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", cfg.Limit)
	}
	if cfg.Window < time.Second {
		return nil, fmt.Errorf("rate limit window must be at least 1s, got %s", cfg.Window)
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiterStore{
		client:   client,
		limit:    int64(cfg.Limit),
		window:   cfg.Window,
		prefix:   cfg.KeyPrefix,
		timeout:  cfg.Timeout,
		fallback: fallback,
		logger:   logger.With("component", "valkey_rate_limiter"),
		now:      time.Now,
	}, nil
}

// Allow counts the request and reports whether it is within the limit.
func (s *RateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.key(identifier, s.now())
	results := s.client.DoMulti(ctx,
		s.client.B().Incr().Key(key).Build(),
		s.client.B().Expire().Key(key).Seconds(int64(s.window.Seconds())).Nx().Build(),
	)

	count, err := results[0].AsInt64()
	if err == nil {
		err = results[1].Error()
	}
	if err != nil {
		s.logger.Warn("Rate limit store unavailable, using fallback", "error", err)
		if s.fallback == nil {
			return true, nil
		}
		return s.fallback.Allow(identifier)
	}

	return count <= s.limit, nil
}

func (s *RateLimiterStore) key(identifier string, now time.Time) string {
	windowStart := now.Truncate(s.window).Unix()
	return s.prefix + ":" + identifier + ":" + strconv.FormatInt(windowStart, 10)
}
