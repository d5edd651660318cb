package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
)

// signatureTolerance bounds replay of captured webhook payloads.
const signatureTolerance = 5 * time.Minute

// WebhookVerifier checks the provider's signature header, formatted as
// "t=<unix>,v1=<hex hmac>", where the MAC is HMAC-SHA256 of
// "<unix>.<payload>" under the shared webhook secret.
type WebhookVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret), now: time.Now}
}

// Verify fails closed: any parse error, stale timestamp or MAC mismatch
// rejects the payload.
func (v *WebhookVerifier) Verify(payload []byte, header string) error {
	ts, mac, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrStaleTimestamp
	}

	expected := computeMAC(v.secret, ts, payload)
	if !hmac.Equal(expected, mac) {
		return ErrInvalidSignature
	}
	return nil
}

func parseSignatureHeader(header string) (int64, []byte, error) {
	var (
		ts  int64 = -1
		mac []byte
	)
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			ts = n
		case "v1":
			b, err := hex.DecodeString(val)
			if err != nil {
				return 0, nil, ErrInvalidSignature
			}
			mac = b
		}
	}
	if ts < 0 || len(mac) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return ts, mac, nil
}

func computeMAC(secret []byte, ts int64, payload []byte) []byte {
	h := hmac.New(sha256.New, secret)
	fmt.Fprintf(h, "%d.", ts)
	h.Write(payload)
	return h.Sum(nil)
}

// SignPayload builds a valid signature header. Used by tests and the seed
// tooling to emulate the provider.
func SignPayload(secret string, ts time.Time, payload []byte) string {
	mac := computeMAC([]byte(secret), ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac))
}
