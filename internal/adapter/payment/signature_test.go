package payment

import (
	"testing"
	"time"
)

const testSecret = "whsec_test"

func fixedVerifier(now time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyValidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := SignPayload(testSecret, now, payload)

	if err := fixedVerifier(now).Verify(payload, header); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyWithinTolerance(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{}`)
	header := SignPayload(testSecret, now.Add(-4*time.Minute), payload)

	if err := fixedVerifier(now).Verify(payload, header); err != nil {
		t.Fatalf("signature inside tolerance rejected: %v", err)
	}
}

func TestVerifyStaleTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{}`)
	header := SignPayload(testSecret, now.Add(-6*time.Minute), payload)

	if err := fixedVerifier(now).Verify(payload, header); err != ErrStaleTimestamp {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyFutureTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{}`)
	header := SignPayload(testSecret, now.Add(6*time.Minute), payload)

	if err := fixedVerifier(now).Verify(payload, header); err != ErrStaleTimestamp {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{}`)
	header := SignPayload("whsec_other", now, payload)

	if err := fixedVerifier(now).Verify(payload, header); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	header := SignPayload(testSecret, now, []byte(`{"amount":100}`))

	if err := fixedVerifier(now).Verify([]byte(`{"amount":1}`), header); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyMalformedHeaders(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte(`{}`)
	v := fixedVerifier(now)

	for _, header := range []string{
		"",
		"t=abc,v1=00",
		"t=1700000000",
		"v1=00",
		"t=1700000000,v1=zz",
		"garbage",
	} {
		if err := v.Verify(payload, header); err == nil {
			t.Errorf("header %q must be rejected", header)
		}
	}
}
