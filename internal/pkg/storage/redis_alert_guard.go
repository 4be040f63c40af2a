package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
)

var _ AlertGuard = (*RedisAlertGuard)(nil)

// RedisAlertGuard keeps once-per-day alert markers in Redis so re-runs do not resend
type RedisAlertGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAlertGuard(cfg *config.RedisConfig) (*RedisAlertGuard, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	// Check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAlertGuard{client: client, ttl: cfg.AlertTTL}, nil
}

// MarkOnce sets the marker with SETNX; only the first caller of the day gets true
func (r *RedisAlertGuard) MarkOnce(ctx context.Context, date time.Time, kind, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, AlertKey(date, kind, key), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set alert marker: %w", err)
	}
	return ok, nil
}

func (r *RedisAlertGuard) Forget(ctx context.Context, date time.Time, kind, key string) error {
	if err := r.client.Del(ctx, AlertKey(date, kind, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete alert marker: %w", err)
	}
	return nil
}

func (r *RedisAlertGuard) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisAlertGuard) Close() error {
	return r.client.Close()
}
