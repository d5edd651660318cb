package port

import (
	"context"

	"github.com/shopyard/gocart/internal/core/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, r domain.Review) error
	Update(ctx context.Context, r domain.Review) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// SetProductRating persists the denormalized average on the product row.
	SetProductRating(ctx context.Context, productID string, avg float64, count int) error
}
