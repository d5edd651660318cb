package domain

import (
	"strconv"
	"time"
)

type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	SalePrice     float64   `json:"salePrice"`
	OnSale        bool      `json:"onSale"`
	Stock         int       `json:"stock"`
	CategoryID    string    `json:"categoryId,omitempty"`
	BrandID       string    `json:"brandId,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	AverageRating float64   `json:"averageRating"`
	RatingCount   int       `json:"ratingCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UnitPrice is the price a buyer pays right now.
func (p Product) UnitPrice() float64 {
	if p.OnSale && p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

type SortOrder string

const (
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortTitleAsc  SortOrder = "title-asc"
	SortTitleDesc SortOrder = "title-desc"
	SortNewest    SortOrder = "newest"
)

// NormalizeSort maps any unrecognized value to price-ascending so that
// equivalent queries always build the same cache key.
func NormalizeSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc, SortNewest:
		return SortOrder(s)
	default:
		return SortPriceAsc
	}
}

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

type ProductFilter struct {
	CategoryID string
	BrandID    string
	OnSale     bool
	PriceMin   float64
	PriceMax   float64 // 0 means unbounded
	MinRating  float64
	Sort       SortOrder
	Page       int
	Limit      int
}

// Normalize clamps pagination and canonicalizes the sort order. A zero-value
// filter and an explicitly-defaulted one normalize to the same result.
func (f ProductFilter) Normalize() ProductFilter {
	f.Sort = NormalizeSort(string(f.Sort))
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.PriceMin < 0 {
		f.PriceMin = 0
	}
	if f.PriceMax < 0 {
		f.PriceMax = 0
	}
	if f.MinRating < 0 {
		f.MinRating = 0
	}
	return f
}

type ProductPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// FormatAmount renders a float parameter without trailing-zero noise so that
// 10, 10.0 and 10.00 serialize identically in cache keys.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
