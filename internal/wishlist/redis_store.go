package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func setKey(userID string) string {
	return "wishlist_set:" + userID
}

// RedisStore sorted set par utilisateur, score = date d'ajout. ZADD NX / ZREM rendent add/remove atomiques.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.client.ZRange(ctx, setKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lecture wishlist: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) Contains(ctx context.Context, userID, productID string) (bool, error) {
	err := s.client.ZScore(ctx, setKey(userID), productID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lecture wishlist: %w", err)
	}
	return true, nil
}

func (s *RedisStore) Add(ctx context.Context, userID, productID string) (bool, error) {
	added, err := s.client.ZAddNX(ctx, setKey(userID), redis.Z{
		Score:  float64(s.now().UnixMicro()),
		Member: productID,
	}).Result()
	if err != nil {
		return false, fmt.Errorf("ajout wishlist: %w", err)
	}
	return added == 1, nil
}

func (s *RedisStore) Remove(ctx context.Context, userID, productID string) (bool, error) {
	removed, err := s.client.ZRem(ctx, setKey(userID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("suppression wishlist: %w", err)
	}
	return removed == 1, nil
}
