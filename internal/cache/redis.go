package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache petites opérations Redis partagées : cache JSON et compteurs de rate limit
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetJSON décode la valeur de key dans dst ; false si la clé est absente
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// entrée corrompue : on la traite comme absente
		c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// IncrementRateLimit incrémente le compteur de la fenêtre courante
func (c *Cache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	incr, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if incr == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return incr, nil
}

// RateLimitTTL temps restant avant remise à zéro du compteur
func (c *Cache) RateLimitTTL(ctx context.Context, key string) time.Duration {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
