package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"credvault/internal/platform/config"
)

var (
	poolHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credvault_redis_pool_hits_total",
		Help: "Number of times a connection was found in the pool",
	})
	poolMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credvault_redis_pool_misses_total",
		Help: "Number of times a connection was not found in the pool",
	})
	poolTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credvault_redis_pool_timeouts_total",
		Help: "Number of times a connection was not obtained due to timeout",
	})
	poolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "credvault_redis_pool_total_conns",
		Help: "Number of total connections in the pool",
	})
	poolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "credvault_redis_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})
)

// Client wraps the go-redis client used by the blob store and the anchor index.
type Client struct {
	*redis.Client

	mu        sync.Mutex
	lastStats *redis.PoolStats
}

// New connects to Redis. Returns nil, nil when the URL is empty.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats publishes pool statistics. Counters are fed with the delta
// since the previous call.
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()

	c.mu.Lock()
	defer c.mu.Unlock()

	poolTotalConns.Set(float64(stats.TotalConns))
	poolIdleConns.Set(float64(stats.IdleConns))

	var prev redis.PoolStats
	if c.lastStats != nil {
		prev = *c.lastStats
	}
	if stats.Hits > prev.Hits {
		poolHits.Add(float64(stats.Hits - prev.Hits))
	}
	if stats.Misses > prev.Misses {
		poolMisses.Add(float64(stats.Misses - prev.Misses))
	}
	if stats.Timeouts > prev.Timeouts {
		poolTimeouts.Add(float64(stats.Timeouts - prev.Timeouts))
	}
	c.lastStats = stats
}
