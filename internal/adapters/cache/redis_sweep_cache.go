package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const (
	sweepReportKeyPrefix = "darkstore:sweep:report:"
	sweepJobKeyPrefix    = "darkstore:sweep:job:"

	DefaultSweepTTL = 24 * time.Hour
)

// RedisSweepCache keeps sweep reports and jobs as JSON values with a TTL.
type RedisSweepCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSweepCache(client *redis.Client, ttl time.Duration) *RedisSweepCache {
	if ttl <= 0 {
		ttl = DefaultSweepTTL
	}
	return &RedisSweepCache{client: client, ttl: ttl}
}

// Dial connects and pings before returning the cache.
func DialRedisSweepCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisSweepCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("dial redis %s: %w", addr, err)
	}

	return NewRedisSweepCache(client, ttl), nil
}

func (c *RedisSweepCache) GetReport(ctx context.Context, key string) (_ *domain.SweepReport, err error) {
	defer obs.Time(ctx, "sweep.cache.redis.GetReport")(&err)

	var report domain.SweepReport
	if err := c.get(ctx, sweepReportKeyPrefix+key, &report); err != nil {
		return nil, fmt.Errorf("get sweep report: %w", err)
	}
	return &report, nil
}

func (c *RedisSweepCache) PutReport(ctx context.Context, key string, r *domain.SweepReport) error {
	if err := c.set(ctx, sweepReportKeyPrefix+key, r); err != nil {
		return fmt.Errorf("put sweep report: %w", err)
	}
	return nil
}

func (c *RedisSweepCache) GetJob(ctx context.Context, id string) (*domain.SweepJob, error) {
	var job domain.SweepJob
	if err := c.get(ctx, sweepJobKeyPrefix+id, &job); err != nil {
		return nil, fmt.Errorf("get sweep job: %w", err)
	}
	return &job, nil
}

func (c *RedisSweepCache) PutJob(ctx context.Context, job *domain.SweepJob) error {
	if job == nil || job.ID == "" {
		return errors.New("put sweep job: id must not be empty")
	}
	if err := c.set(ctx, sweepJobKeyPrefix+job.ID, job); err != nil {
		return fmt.Errorf("put sweep job: %w", err)
	}
	return nil
}

func (c *RedisSweepCache) Close() error {
	return c.client.Close()
}

func (c *RedisSweepCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("key %q: %w", key, domain.ErrCacheMiss)
	}
	if err != nil {
		return fmt.Errorf("key %q: redis get: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("key %q: decode: %w", key, err)
	}
	return nil
}

func (c *RedisSweepCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("key %q: encode: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("key %q: redis set: %w", key, err)
	}
	return nil
}
