// internal/configstore/redis.go
package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chedoparti/clubsched/internal/pricing"
	"github.com/chedoparti/clubsched/internal/schedule"
)

// RedisStore keeps configuration blobs as keyed JSON values in Redis, for
// deployments where several instances share one configuration.
type RedisStore struct {
	client *redis.Client
	notifier
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) getBlob(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *RedisStore) setBlob(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) LoadSchedule(ctx context.Context) (schedule.InstitutionSchedule, error) {
	return loadScheduleBlob(ctx, s)
}

func (s *RedisStore) SaveSchedule(ctx context.Context, sched schedule.InstitutionSchedule) error {
	if err := saveScheduleBlob(ctx, s, sched); err != nil {
		return err
	}
	s.notify(sched)
	return nil
}

func (s *RedisStore) LoadPricing(ctx context.Context) (pricing.Config, error) {
	return loadPricingBlob(ctx, s)
}

func (s *RedisStore) SavePricing(ctx context.Context, cfg pricing.Config) error {
	return savePricingBlob(ctx, s, cfg)
}

func (s *RedisStore) OnScheduleChanged(fn func(schedule.InstitutionSchedule)) func() {
	return s.subscribe(fn)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
