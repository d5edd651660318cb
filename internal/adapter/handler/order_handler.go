package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/core/service"
)

type OrderHandler struct {
	svc      *service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, validate *validator.Validate, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, validate: validate, logger: logger}
}

type placeOrderRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=cod card"`
	Address       struct {
		FullName   string `json:"fullName" validate:"required"`
		Line1      string `json:"line1" validate:"required"`
		Line2      string `json:"line2"`
		City       string `json:"city" validate:"required"`
		PostalCode string `json:"postalCode" validate:"required"`
		Country    string `json:"country" validate:"required"`
		Phone      string `json:"phone"`
	} `json:"address" validate:"required"`
}

type placeOrderResponse struct {
	Order       *domain.Order `json:"order"`
	CheckoutURL string        `json:"checkoutUrl,omitempty"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req placeOrderRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	addr := domain.Address{
		FullName:   req.Address.FullName,
		Line1:      req.Address.Line1,
		Line2:      req.Address.Line2,
		City:       req.Address.City,
		PostalCode: req.Address.PostalCode,
		Country:    req.Address.Country,
		Phone:      req.Address.Phone,
	}
	order, checkoutURL, err := h.svc.PlaceOrder(r.Context(), id.UserID, id.Email, addr, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, placeOrderResponse{Order: order, CheckoutURL: checkoutURL})
}

func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	orders, err := h.svc.ListUserOrders(r.Context(), id.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	order, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"), id.UserID, id.IsAdmin())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// SyncPayment is the fallback poll for card orders whose webhook was missed.
func (h *OrderHandler) SyncPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	order, err := h.svc.SyncCheckoutSession(r.Context(), chi.URLParam(r, "orderID"), id.UserID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListAllOrders(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed delivered cancelled"`
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}
	if err := h.svc.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderID"), domain.OrderStatus(req.Status)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// analytics

func (h *OrderHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.SalesSummary(r.Context(), sinceParam(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *OrderHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	top, err := h.svc.TopProducts(r.Context(), sinceParam(r), queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if top == nil {
		top = []domain.TopProduct{}
	}
	writeJSON(w, http.StatusOK, top)
}

// sinceParam parses ?days=N, defaulting to the last 30 days.
func sinceParam(r *http.Request) time.Time {
	days := queryInt(r.URL.Query().Get("days"))
	if days < 1 || days > 365 {
		days = 30
	}
	return time.Now().AddDate(0, 0, -days)
}
