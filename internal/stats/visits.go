package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "visits:"

// Visits counts requests per route in Redis so a load-test run can be
// inspected afterwards. Counters only: no computed result is ever
// stored here.
type Visits struct {
	client *redis.Client
}

// NewVisits connects to Redis and verifies the connection
func NewVisits(redisURL, password string) (*Visits, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Visits{client: rdb}, nil
}

// Record increments the counter for a route. Safe to call on a nil
// receiver so the server can run without Redis.
func (v *Visits) Record(ctx context.Context, route string) {
	if v == nil || v.client == nil {
		return
	}
	// Best effort: a dropped counter is not worth failing a request
	_ = v.client.Incr(ctx, keyPrefix+route).Err()
}

// Snapshot returns all route counters
func (v *Visits) Snapshot(ctx context.Context) (map[string]int64, error) {
	if v == nil || v.client == nil {
		return map[string]int64{}, nil
	}

	counts := make(map[string]int64)
	iter := v.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := v.client.Get(ctx, key).Int64()
		if err != nil {
			continue
		}
		counts[key[len(keyPrefix):]] = n
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan visit counters: %w", err)
	}
	return counts, nil
}

// Close releases the Redis connection
func (v *Visits) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}
