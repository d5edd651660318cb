package port

import "context"

// CheckoutParams describes one hosted checkout attempt. Amount is in minor
// currency units.
type CheckoutParams struct {
	OrderID       string
	Amount        int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string // "paid" or "unpaid"
	PaymentRef    string
	OrderID       string
}

// PaymentGateway is the card-payment provider's hosted checkout flow.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}
