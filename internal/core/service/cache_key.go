package service

import (
	"fmt"

	"github.com/shopyard/gocart/internal/core/domain"
)

// Cache keys are structured prefix tags: entity type followed by the full
// canonical parameter set. Invalidation deletes by prefix glob, so adding a
// parameter here never silently leaks stale entries.
const (
	productListPrefix   = "catalog:products:"
	productDetailPrefix = "catalog:product:"
	categoryListKey     = "catalog:categories"
)

// listingKey serializes every filter parameter in a fixed order. The filter
// must already be normalized: absent and explicitly-defaulted parameters
// then render identically, so equivalent queries always share one key.
func listingKey(f domain.ProductFilter) string {
	return fmt.Sprintf("%scat=%s:brand=%s:sale=%t:pmin=%s:pmax=%s:minr=%s:sort=%s:page=%d:limit=%d",
		productListPrefix,
		f.CategoryID,
		f.BrandID,
		f.OnSale,
		domain.FormatAmount(f.PriceMin),
		domain.FormatAmount(f.PriceMax),
		domain.FormatAmount(f.MinRating),
		f.Sort,
		f.Page,
		f.Limit,
	)
}

func productDetailKey(id string) string {
	return productDetailPrefix + id
}
