package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

type CartService struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
}

func NewCartService(carts port.CartRepository, catalog port.CatalogRepository) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// GetCart returns the user's cart, empty but non-nil when none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		cart = &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the cart, snapshotting the
// current unit price (sale price when the product is on sale). Adding a
// product already in the cart merges quantities.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrQuantityNeeded
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	now := time.Now()
	if cart == nil {
		cart = &domain.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: now}
	}
	cart.UpdatedAt = now

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.UnitPrice(),
			Quantity:  quantity,
		})
	}

	if err := s.carts.Upsert(ctx, *cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

// SetItemQuantity overwrites the quantity of a cart line; zero removes it.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, ErrQuantityNeeded
	}
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		return nil, port.ErrNotFound
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, port.ErrNotFound
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}
	cart.UpdatedAt = time.Now()

	if err := s.carts.Upsert(ctx, *cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.SetItemQuantity(ctx, userID, productID, 0)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
