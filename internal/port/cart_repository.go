package port

import (
	"context"

	"github.com/shopyard/gocart/internal/core/domain"
)

type CartRepository interface {
	// GetByUser returns the user's open cart, or (nil, nil) when none exists.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)

	// Upsert saves the cart and its items, replacing any previous item set.
	Upsert(ctx context.Context, c domain.Cart) error

	DeleteByUser(ctx context.Context, userID string) error
}
