package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/core/service"
)

type DistributorHandler struct {
	svc      *service.DistributorService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewDistributorHandler(svc *service.DistributorService, validate *validator.Validate, logger *zap.Logger) *DistributorHandler {
	return &DistributorHandler{svc: svc, validate: validate, logger: logger}
}

type applicationRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"required,max=255"`
	Message string `json:"message" validate:"max=4000"`
}

func (h *DistributorHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	app, err := h.svc.Apply(r.Context(), req.Name, req.Email, req.Company, req.Message)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *DistributorHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *DistributorHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req applicationStatusRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}
	if err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "applicationID"), domain.ApplicationStatus(req.Status)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
