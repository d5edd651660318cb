package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/service"
)

type CartHandler struct {
	svc      *service.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartHandler(svc *service.CartService, validate *validator.Validate, logger *zap.Logger) *CartHandler {
	return &CartHandler{svc: svc, validate: validate, logger: logger}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	cart, err := h.svc.GetCart(r.Context(), id.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req addItemRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	cart, err := h.svc.AddItem(r.Context(), id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (h *CartHandler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req setQuantityRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	cart, err := h.svc.SetItemQuantity(r.Context(), id.UserID, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	cart, err := h.svc.RemoveItem(r.Context(), id.UserID, chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.svc.Clear(r.Context(), id.UserID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
