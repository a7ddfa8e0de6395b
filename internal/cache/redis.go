package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/slerbakk/storefront/internal/domain"
)

const (
	productListKey   = "catalog:products"
	productKeyPrefix = "catalog:product:"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:    client,
		baseTTL:   5 * time.Minute,
		maxJitter: time.Minute,
	}
}

type RedisCache struct {
	client    *redis.Client
	baseTTL   time.Duration
	maxJitter time.Duration
}

func (r *RedisCache) GetAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.get(ctx, productListKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisCache) SetAll(ctx context.Context, products []domain.Product) error {
	return r.set(ctx, productListKey, products)
}

func (r *RedisCache) Get(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	if err := r.get(ctx, productKey(productID), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisCache) Set(ctx context.Context, product *domain.Product) error {
	return r.set(ctx, productKey(product.ID), product)
}

// Invalidate drops the listing and every cached product.
func (r *RedisCache) Invalidate(ctx context.Context) error {
	keys := []string{productListKey}
	iter := r.client.Scan(ctx, 0, productKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// ttl spreads expiry so the listing and its products do not all lapse at once.
func (r *RedisCache) ttl() time.Duration {
	if r.maxJitter <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int63n(int64(r.maxJitter)))
}

func productKey(productID string) string {
	return productKeyPrefix + productID
}
