package cache

import (
	"context"
	"errors"

	"github.com/slerbakk/storefront/internal/domain"
)

// ProductCache holds upstream catalog responses so that listing, search and
// add-to-cart do not hit the product API on every request.
type ProductCache interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	SetAll(ctx context.Context, products []domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

// NopCache never holds anything. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) GetAll(context.Context) ([]domain.Product, error) { return nil, ErrCacheMiss }
func (NopCache) SetAll(context.Context, []domain.Product) error   { return nil }
func (NopCache) Get(context.Context, string) (*domain.Product, error) {
	return nil, ErrCacheMiss
}
func (NopCache) Set(context.Context, *domain.Product) error { return nil }
func (NopCache) Invalidate(context.Context) error           { return nil }
