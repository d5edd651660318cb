package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/core/service"
)

type CatalogHandler struct {
	svc      *service.CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, validate *validator.Validate, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, validate: validate, logger: logger}
}

// ListProducts maps the query string onto a ProductFilter. Missing parameters
// keep their zero values; normalization in the service makes them equivalent
// to explicit defaults.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ProductFilter{
		CategoryID: q.Get("category"),
		BrandID:    q.Get("brand"),
		OnSale:     q.Get("sale") == "true" || q.Get("sale") == "1",
		PriceMin:   queryFloat(q.Get("priceMin")),
		PriceMax:   queryFloat(q.Get("priceMax")),
		MinRating:  queryFloat(q.Get("minRating")),
		Sort:       domain.SortOrder(q.Get("sort")),
		Page:       queryInt(q.Get("page")),
		Limit:      queryInt(q.Get("limit")),
	}

	page, err := h.svc.ListProducts(r.Context(), f)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	SalePrice   float64 `json:"salePrice" validate:"gte=0"`
	OnSale      bool    `json:"onSale"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  string  `json:"categoryId"`
	BrandID     string  `json:"brandId"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), domain.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		OnSale:      req.OnSale,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	p := domain.Product{
		ID:          chi.URLParam(r, "productID"),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		OnSale:      req.OnSale,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		ImageURL:    req.ImageURL,
	}
	if err := h.svc.UpdateProduct(r.Context(), p); err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type nameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.svc.ListBrands(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}
	b, err := h.svc.CreateBrand(r.Context(), req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBrand(r.Context(), chi.URLParam(r, "brandID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ClearListingCache(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func queryFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
