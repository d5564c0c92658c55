package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Options controls entry lifetime. Each Set adds a random duration in [0, TTLJitter) to TTL
// so that carts cached together do not expire together.
type Options struct {
	TTL       time.Duration
	TTLJitter time.Duration
}

func NewRedisCache(client *redis.Client, opts Options) *RedisCache {
	return &RedisCache{
		client: client,
		opts:   opts,
	}
}

type RedisCache struct {
	client *redis.Client
	opts   Options
}

func (r RedisCache) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	key := cacheKey(cartID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// a corrupt entry is evicted and reloaded from the store
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("evict corrupt cart failed: %w", delErr)
		}
		return nil, ErrCacheMiss
	}

	return &cart, nil
}

func (r RedisCache) Set(ctx context.Context, cartID string, cart *domain.Cart) error {
	key := cacheKey(cartID)
	jsonCart, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, key, jsonCart, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, cartID string) error {
	key := cacheKey(cartID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func (r RedisCache) ttl() time.Duration {
	if r.opts.TTLJitter <= 0 {
		return r.opts.TTL
	}
	return r.opts.TTL + rand.N(r.opts.TTLJitter)
}

func cacheKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}
