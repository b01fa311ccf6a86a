package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisSlotRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSlots stores every slot as a plain redis string without expiry.
func NewRedisSlots(client *redis.Client, prefix string) port.SlotRepository {
	return &redisSlotRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *redisSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.Get: %w", err)
	}

	return value, true, nil
}

func (r *redisSlotRepository) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisSlotRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}
