package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/adapter/payment"
	"github.com/shopyard/gocart/internal/core/service"
	"github.com/shopyard/gocart/internal/port"
)

type stubConfirmer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *stubConfirmer) HandleCheckoutCompleted(ctx context.Context, eventID, sessionID, paymentRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sessionID)
	return s.err
}

func (s *stubConfirmer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

const webhookSecret = "whsec_handler_test"

func postWebhook(t *testing.T, h *WebhookHandler, payload []byte, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set("Webhook-Signature", header)
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)
	return rec
}

func TestWebhookValidEvent(t *testing.T) {
	confirmer := &stubConfirmer{}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"session_id":"cs_1","payment_ref":"pay_1"}}`)
	rec := postWebhook(t, h, payload, payment.SignPayload(webhookSecret, time.Now(), payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if confirmer.callCount() != 1 {
		t.Errorf("expected one confirmation call, got %d", confirmer.callCount())
	}
}

func TestWebhookBadSignature(t *testing.T) {
	confirmer := &stubConfirmer{}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"session_id":"cs_1"}}`)
	rec := postWebhook(t, h, payload, payment.SignPayload("whsec_wrong", time.Now(), payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if confirmer.callCount() != 0 {
		t.Errorf("rejected signature must not reach the order service")
	}
}

func TestWebhookMissingSignature(t *testing.T) {
	confirmer := &stubConfirmer{}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	rec := postWebhook(t, h, payload, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if confirmer.callCount() != 0 {
		t.Errorf("unsigned payload must not reach the order service")
	}
}

func TestWebhookUnknownOrder(t *testing.T) {
	confirmer := &stubConfirmer{err: port.ErrNotFound}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"session_id":"cs_gone"}}`)
	rec := postWebhook(t, h, payload, payment.SignPayload(webhookSecret, time.Now(), payload))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWebhookBlankSessionReference(t *testing.T) {
	confirmer := &stubConfirmer{err: service.ErrNoSession}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"session_id":""}}`)
	rec := postWebhook(t, h, payload, payment.SignPayload(webhookSecret, time.Now(), payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhookUnhandledEventAcked(t *testing.T) {
	confirmer := &stubConfirmer{}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{"id":"evt_1","type":"charge.refunded"}`)
	rec := postWebhook(t, h, payload, payment.SignPayload(webhookSecret, time.Now(), payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("unhandled event types are acknowledged, got %d", rec.Code)
	}
	if confirmer.callCount() != 0 {
		t.Errorf("unhandled event must not trigger confirmation")
	}
}

func TestWebhookMalformedBody(t *testing.T) {
	confirmer := &stubConfirmer{}
	h := NewWebhookHandler(confirmer, payment.NewWebhookVerifier(webhookSecret), zap.NewNop())

	payload := []byte(`{not json`)
	rec := postWebhook(t, h, payload, payment.SignPayload(webhookSecret, time.Now(), payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
