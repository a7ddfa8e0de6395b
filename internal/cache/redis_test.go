package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sampleProduct(id string) domain.Product {
	return domain.Product{
		ID:              id,
		Title:           "Vanilla Perfume",
		Price:           decimal.RequireFromString("2599.99"),
		DiscountedPrice: decimal.NewNullDecimal(decimal.RequireFromString("2079.99")),
		Image:           domain.Image{URL: "https://img.example/" + id, Alt: "perfume"},
		Rating:          5,
		Tags:            []string{"perfume", "beauty"},
	}
}

func TestGetAll_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	products, err := cache.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, products)
}

func TestSetAll_ThenGetAll(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	err := cache.SetAll(ctx, []domain.Product{sampleProduct("a"), sampleProduct("b")})
	require.NoError(t, err)
	assert.True(t, mr.Exists(productListKey))

	products, err := cache.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.True(t, products[0].DiscountedPrice.Valid)
	assert.True(t, decimal.RequireFromString("2079.99").Equal(products[0].EffectivePrice()))
}

func TestSet_ThenGet(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	p := sampleProduct("abc")

	require.NoError(t, cache.Set(ctx, &p))

	got, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Vanilla Perfume", got.Title)
	assert.Equal(t, domain.Image{URL: "https://img.example/abc", Alt: "perfume"}, got.Image)
	assert.Equal(t, []string{"perfume", "beauty"}, got.Tags)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	p := sampleProduct("bad")
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, mr.Set(productKey("bad"), string(data[:10])))

	_, err = cache.Get(context.Background(), "bad")
	require.ErrorContains(t, err, "unmarshal catalog:product:bad failed")
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)
	p := sampleProduct("ttl")

	require.NoError(t, cache.Set(context.Background(), &p))

	ttl := mr.TTL(productKey("ttl"))
	assert.True(t, ttl >= 5*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 6*time.Minute, "TTL should be base + max jitter")
}

func TestGet_ExpiredEntryIsMiss(t *testing.T) {
	cache, mr := setupTestRedis(t)
	p := sampleProduct("old")
	require.NoError(t, cache.Set(context.Background(), &p))

	mr.FastForward(7 * time.Minute)

	_, err := cache.Get(context.Background(), "old")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	p1, p2 := sampleProduct("1"), sampleProduct("2")
	require.NoError(t, cache.SetAll(ctx, []domain.Product{p1, p2}))
	require.NoError(t, cache.Set(ctx, &p1))
	require.NoError(t, cache.Set(ctx, &p2))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(productListKey))
	assert.False(t, mr.Exists(productKey("1")))
	assert.False(t, mr.Exists(productKey("2")))
	assert.True(t, mr.Exists("unrelated"))
}

func TestInvalidate_EmptyCache(t *testing.T) {
	cache, _ := setupTestRedis(t)
	assert.NoError(t, cache.Invalidate(context.Background()))
}

func TestProductKey_Format(t *testing.T) {
	assert.Equal(t, "catalog:product:test123", productKey("test123"))
}
