package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/port"
)

// checkoutConfirmer is the slice of the order service the webhook needs.
type checkoutConfirmer interface {
	HandleCheckoutCompleted(ctx context.Context, eventID, sessionID, paymentRef string) error
}

// signatureVerifier rejects payloads that were not signed by the provider.
type signatureVerifier interface {
	Verify(payload []byte, header string) error
}

// WebhookHandler receives asynchronous payment events from the checkout
// provider. The signature is checked before the body is interpreted at all;
// a bad signature mutates nothing.
type WebhookHandler struct {
	orders   checkoutConfirmer
	verifier signatureVerifier
	logger   *zap.Logger
}

func NewWebhookHandler(orders checkoutConfirmer, verifier signatureVerifier, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{orders: orders, verifier: verifier, logger: logger}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		SessionID  string `json:"session_id"`
		PaymentRef string `json:"payment_ref"`
	} `json:"data"`
}

func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	if err := h.verifier.Verify(payload, r.Header.Get("Webhook-Signature")); err != nil {
		h.logger.Warn("webhook signature rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		writeError(w, http.StatusBadRequest, "malformed event")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err := h.orders.HandleCheckoutCompleted(r.Context(), event.ID, event.Data.SessionID, event.Data.PaymentRef)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		case errors.Is(err, port.ErrNotFound):
			// Unknown order reference: report and do not invite retries.
			writeError(w, http.StatusNotFound, "order not found")
		default:
			respondError(w, h.logger, err)
		}
	default:
		// Unhandled event types are acknowledged so the provider stops
		// redelivering them.
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}
