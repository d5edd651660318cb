package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/port"
)

// Client talks to the hosted-checkout provider. All calls run through a
// circuit breaker so a flapping provider degrades fast instead of tying up
// request handlers.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "checkout-provider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		breaker: cb,
	}
}

type sessionPayload struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
	PaymentRef    string `json:"payment_ref"`
	Reference     string `json:"reference"`
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p port.CheckoutParams) (*port.CheckoutSession, error) {
	body, err := json.Marshal(map[string]any{
		"amount":         p.Amount,
		"currency":       p.Currency,
		"reference":      p.OrderID,
		"customer_email": p.CustomerEmail,
		"success_url":    p.SuccessURL,
		"cancel_url":     p.CancelURL,
	})
	if err != nil {
		return nil, err
	}
	return c.session(ctx, http.MethodPost, "/v1/checkout/sessions", body)
}

func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*port.CheckoutSession, error) {
	return c.session(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil)
}

func (c *Client) session(ctx context.Context, method, path string, body []byte) (*port.CheckoutSession, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, method, path, body)
	})
	if err != nil {
		return nil, err
	}
	sp := result.(*sessionPayload)
	return &port.CheckoutSession{
		ID:            sp.ID,
		URL:           sp.URL,
		PaymentStatus: sp.PaymentStatus,
		PaymentRef:    sp.PaymentRef,
		OrderID:       sp.Reference,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*sessionPayload, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, port.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("checkout provider: status %d: %s", resp.StatusCode, raw)
	}

	var sp sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sp, nil
}
