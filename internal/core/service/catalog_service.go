package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

// listingTTL bounds how stale a cached listing may get. Staleness is only
// discovered at read time; there is no background sweep.
const listingTTL = 10 * time.Minute

type CatalogService struct {
	repo   port.CatalogRepository
	cache  port.CacheRepository
	logger *zap.Logger
}

func NewCatalogService(repo port.CatalogRepository, cache port.CacheRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// ListProducts serves a product page through the read-through listing cache.
// The cache is best-effort: any cache failure degrades to recomputation.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	f = f.Normalize()
	key := listingKey(f)

	if page, ok := s.cachedPage(ctx, key); ok {
		return page, nil
	}

	items, total, err := s.repo.FindProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []domain.Product{}
	}

	page := &domain.ProductPage{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
	s.cacheSet(ctx, key, page)
	return page, nil
}

func (s *CatalogService) cachedPage(ctx context.Context, key string) (*domain.ProductPage, bool) {
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if payload == nil {
		return nil, false
	}
	var page domain.ProductPage
	if err := json.Unmarshal(payload, &page); err != nil {
		s.logger.Warn("corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &page, true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, listingTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	key := productDetailKey(id)
	if payload, err := s.cache.Get(ctx, key); err == nil && payload != nil {
		var p domain.Product
		if json.Unmarshal(payload, &p) == nil {
			return &p, nil
		}
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, p)
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	now := time.Now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productListPrefix+"*")
	return &p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) error {
	p.UpdatedAt = time.Now()
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, productListPrefix+"*", productDetailKey(p.ID))
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, productListPrefix+"*", productDetailKey(id))
	return nil
}

// ListCategories serves the whole category list through the cache.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if payload, err := s.cache.Get(ctx, categoryListKey); err == nil && payload != nil {
		var cats []domain.Category
		if json.Unmarshal(payload, &cats) == nil {
			return cats, nil
		}
	}

	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	s.cacheSet(ctx, categoryListKey, cats)
	return cats, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, categoryListKey+"*", productListPrefix+"*")
	return &c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, categoryListKey+"*", productListPrefix+"*")
	return nil
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	return brands, nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*domain.Brand, error) {
	b := domain.Brand{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
	if err := s.repo.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productListPrefix+"*")
	return &b, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, productListPrefix+"*")
	return nil
}

// ClearListingCache is the administrative "drop everything" switch.
func (s *CatalogService) ClearListingCache(ctx context.Context) (int, error) {
	return s.cache.DeleteByPattern(ctx, "catalog:*")
}

// invalidate runs synchronously inside the mutating call, before the handler
// reports success: the next read must not observe a stale entry. Deletion
// failures are logged and swallowed; over-serving a recompute is acceptable,
// failing the mutation is not.
func (s *CatalogService) invalidate(ctx context.Context, patterns ...string) {
	for _, pattern := range patterns {
		if _, err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
