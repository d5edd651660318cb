package port

import (
	"context"

	"github.com/shopyard/gocart/internal/core/domain"
)

type CatalogRepository interface {
	// FindProducts applies the filter, sort and pagination in the store and
	// returns the page plus the total match count.
	FindProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)

	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) error
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, b domain.Brand) error
	DeleteBrand(ctx context.Context, id string) error
}
