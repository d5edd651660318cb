package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

type ReviewService struct {
	reviews port.ReviewRepository
	catalog port.CatalogRepository
	cache   port.CacheRepository
	logger  *zap.Logger
}

func NewReviewService(reviews port.ReviewRepository, catalog port.CatalogRepository, cache port.CacheRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, catalog: catalog, cache: cache, logger: logger}
}

func (s *ReviewService) AddReview(ctx context.Context, productID, userID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	r := domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, productID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	r, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, ErrNotOwner
	}

	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
	if err := s.reviews.Update(ctx, *r); err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, r.ProductID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID string, admin bool) error {
	r, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !admin && r.UserID != userID {
		return ErrNotOwner
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	return s.refreshRating(ctx, r.ProductID)
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// refreshRating recomputes the product's average as the mean of its reviews
// and persists it on the product row, then drops cache entries that carry the
// old value (listings filter and sort on rating).
func (s *ReviewService) refreshRating(ctx context.Context, productID string) error {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	avg := domain.AverageRating(reviews)
	if err := s.reviews.SetProductRating(ctx, productID, avg, len(reviews)); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}

	for _, pattern := range []string{productListPrefix + "*", productDetailKey(productID)} {
		if _, err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("rating invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
	return nil
}
