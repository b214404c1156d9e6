package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cedra_storefront/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

func Key(userID string) string {
	return "cart:" + userID
}

// Channel canal pub/sub notifié après chaque sauvegarde
func Channel(userID string) string {
	return "cart:" + userID
}

// RedisStore panier JSON dans Redis. La sauvegarde est une transaction WATCH/MULTI :
// si la clé change entre la lecture de version et l'EXEC, la sauvegarde échoue en conflit.
type RedisStore struct {
	client *redis.Client
	log    *logrus.Entry
}

func NewRedisStore(client *redis.Client, log *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, log: log.WithField("component", "cart_store")}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (models.Cart, error) {
	return readCart(ctx, s.client, userID)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readCart(ctx context.Context, rdb getter, userID string) (models.Cart, error) {
	data, err := rdb.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("lecture panier: %w", err)
	}

	var c models.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Cart{}, fmt.Errorf("décodage panier: %w", err)
	}
	c.UserID = userID
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, cart models.Cart) (models.Cart, error) {
	key := Key(cart.UserID)
	expected := cart.Version

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readCart(ctx, tx, cart.UserID)
		if err != nil {
			return err
		}
		if current.Version != expected {
			return ErrVersionConflict
		}

		cart.Version = expected + 1
		cart.UpdatedAt = time.Now().UTC()
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		data, err := json.Marshal(cart)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, ErrVersionConflict) {
		return models.Cart{}, ErrVersionConflict
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("sauvegarde panier: %w", err)
	}

	event := EventUpdated
	if len(cart.Items) == 0 {
		event = EventCleared
	}
	// ✅ Pub/Sub pour sync temps réel, après le commit
	if err := s.client.Publish(ctx, Channel(cart.UserID), event).Err(); err != nil {
		s.log.WithError(err).WithField("user_id", cart.UserID).Warn("⚠️ Publication panier échouée")
	}
	return cart, nil
}
