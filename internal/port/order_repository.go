package port

import (
	"context"
	"time"

	"github.com/shopyard/gocart/internal/core/domain"
)

type OrderRepository interface {
	// CreateWithStockDecrement persists a cash-on-delivery order and
	// decrements stock for every line item in one transaction. A line whose
	// quantity exceeds the available stock aborts the whole transaction with
	// an *InsufficientStockError naming the product.
	CreateWithStockDecrement(ctx context.Context, o domain.Order) error

	// Create persists an order without touching stock (card checkout).
	Create(ctx context.Context, o domain.Order) error

	// SetCheckoutSession records the hosted checkout session backing an order.
	SetCheckoutSession(ctx context.Context, orderID, sessionID string) error

	// ConfirmPayment applies the confirmed-payment side effects in one
	// transaction guarded by the current payment status: if the order is
	// already paid it returns (false, nil) and changes nothing. Otherwise it
	// marks the order paid/confirmed, records paymentRef and decrements stock
	// for every line item.
	ConfirmPayment(ctx context.Context, orderID, paymentRef string) (bool, error)

	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error

	SalesSummary(ctx context.Context, since time.Time) (domain.SalesSummary, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error)
}
