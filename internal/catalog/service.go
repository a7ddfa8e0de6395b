package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cache"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const listKey = "products"

type Service struct {
	source Source
	cache  cache.ProductCache
	log    logrus.FieldLogger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(source Source, cache cache.ProductCache, log logrus.FieldLogger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		log:    log,
	}
}

// Products returns the whole catalog in upstream order.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(listKey, func() (interface{}, error) {
		products, err := s.cache.GetAll(ctx)
		if err == nil {
			return products, nil // catalog is in cache
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.WithContext(ctx, s.log).WithError(err).Warn("cache get products failed")
		}

		products, err = s.source.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		go s.fill(func(ctx context.Context) error { return s.cache.SetAll(ctx, products) })
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Product returns a single product by id.
func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do("product:"+id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.WithContext(ctx, s.log).WithError(err).WithField("product_id", id).Warn("cache get product failed")
		}

		product, err = s.source.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		go s.fill(func(ctx context.Context) error { return s.cache.Set(ctx, product) })
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

// Browse returns the catalog filtered by term (when not blank) and sorted.
func (s *Service) Browse(ctx context.Context, term string, opt SortOption) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	if term != "" {
		products = Search(products, term, 0)
	}
	return Sort(products, opt), nil
}

// Search matches term against the catalog, returning at most limit products.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Search(products, term, limit), nil
}

// Refresh drops cached catalog data so the next read goes upstream.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

func (s *Service) fill(set func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := set(ctx); err != nil {
		s.log.WithError(err).Warn("cache set failed")
	}
}
