package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/service"
)

type ReviewHandler struct {
	svc      *service.ReviewService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewReviewHandler(svc *service.ReviewService, validate *validator.Validate, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, validate: validate, logger: logger}
}

func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListByProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req reviewRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	review, err := h.svc.AddReview(r.Context(), chi.URLParam(r, "productID"), id.UserID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req reviewRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	review, err := h.svc.UpdateReview(r.Context(), chi.URLParam(r, "reviewID"), id.UserID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := h.svc.DeleteReview(r.Context(), chi.URLParam(r, "reviewID"), id.UserID, id.IsAdmin()); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
