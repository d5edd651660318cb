package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

// CheckoutURLs are where the hosted payment flow sends the buyer back.
type CheckoutURLs struct {
	Success string
	Cancel  string
}

type OrderService struct {
	orders  port.OrderRepository
	carts   port.CartRepository
	cache   port.CacheRepository
	gateway port.PaymentGateway
	mailer  port.Mailer
	urls    CheckoutURLs
	logger  *zap.Logger
}

func NewOrderService(
	orders port.OrderRepository,
	carts port.CartRepository,
	cache port.CacheRepository,
	gateway port.PaymentGateway,
	mailer port.Mailer,
	urls CheckoutURLs,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		carts:   carts,
		cache:   cache,
		gateway: gateway,
		mailer:  mailer,
		urls:    urls,
		logger:  logger,
	}
}

// PlaceOrder turns the user's cart into an order. Cash-on-delivery decrements
// stock synchronously inside the order transaction; card payments leave stock
// untouched and return a hosted checkout URL for the buyer to complete.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, email string, addr domain.Address, method domain.PaymentMethod) (*domain.Order, string, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("load cart: %w", err)
	}
	if cart == nil || cart.Empty() {
		return nil, "", ErrCartEmpty
	}

	now := time.Now()
	order := domain.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Address:       addr,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, it := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	order.Total = order.ComputeTotal()

	switch method {
	case domain.PaymentMethodCOD:
		return s.placeCOD(ctx, &order, email)
	case domain.PaymentMethodCard:
		return s.placeCard(ctx, &order, email)
	default:
		return nil, "", ErrWrongMethod
	}
}

func (s *OrderService) placeCOD(ctx context.Context, order *domain.Order, email string) (*domain.Order, string, error) {
	order.PaymentStatus = domain.PaymentStatusPending
	order.OrderStatus = domain.OrderStatusConfirmed

	// All-or-nothing: any line item over stock aborts the whole order.
	if err := s.orders.CreateWithStockDecrement(ctx, *order); err != nil {
		return nil, "", err
	}

	s.finishCheckout(ctx, order, email)
	return order, "", nil
}

func (s *OrderService) placeCard(ctx context.Context, order *domain.Order, email string) (*domain.Order, string, error) {
	order.PaymentStatus = domain.PaymentStatusPending
	order.OrderStatus = domain.OrderStatusPending

	if err := s.orders.Create(ctx, *order); err != nil {
		return nil, "", fmt.Errorf("create order: %w", err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, port.CheckoutParams{
		OrderID:       order.ID,
		Amount:        minorUnits(order.Total),
		Currency:      "usd",
		CustomerEmail: email,
		SuccessURL:    s.urls.Success,
		CancelURL:     s.urls.Cancel,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.orders.SetCheckoutSession(ctx, order.ID, sess.ID); err != nil {
		return nil, "", fmt.Errorf("record checkout session: %w", err)
	}
	order.CheckoutSessionID = sess.ID
	return order, sess.URL, nil
}

// HandleCheckoutCompleted processes a provider webhook event. Redeliveries of
// an already-applied event ID short-circuit on the event key; the key is
// recorded only after a successful confirmation, so a transient failure keeps
// the retry path open. The row-level payment-status gate remains authoritative.
func (s *OrderService) HandleCheckoutCompleted(ctx context.Context, eventID, sessionID, paymentRef string) error {
	// Cash orders store an empty session id; a blank lookup must never
	// resolve to one of them.
	if strings.TrimSpace(sessionID) == "" {
		return ErrNoSession
	}

	eventKey := "webhook:" + eventID
	if eventID != "" {
		payload, err := s.cache.Get(ctx, eventKey)
		if err != nil {
			s.logger.Warn("webhook idempotency check failed", zap.String("event", eventID), zap.Error(err))
		} else if payload != nil {
			s.logger.Info("duplicate webhook event skipped", zap.String("event", eventID))
			return nil
		}
	}

	order, err := s.orders.GetByCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.confirmPayment(ctx, order, paymentRef); err != nil {
		return err
	}

	if eventID != "" {
		if _, err := s.cache.SetIdempotency(ctx, eventKey); err != nil {
			s.logger.Warn("webhook idempotency record failed", zap.String("event", eventID), zap.Error(err))
		}
	}
	return nil
}

// SyncCheckoutSession is the synchronous fallback when a webhook was missed:
// it polls the provider for the session state and confirms if paid.
func (s *OrderService) SyncCheckoutSession(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.authorizedOrder(ctx, orderID, userID, false)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != domain.PaymentMethodCard {
		return nil, ErrWrongMethod
	}
	if order.CheckoutSessionID == "" {
		return nil, ErrNoSession
	}
	if order.PaymentStatus == domain.PaymentStatusPaid {
		return order, nil
	}

	sess, err := s.gateway.GetCheckoutSession(ctx, order.CheckoutSessionID)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if sess.PaymentStatus != "paid" {
		return order, nil
	}

	if err := s.confirmPayment(ctx, order, sess.PaymentRef); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

// confirmPayment applies the confirmed-payment side effects exactly once.
// The repository gates on the current payment status inside its transaction;
// an order that is already paid makes this a no-op.
func (s *OrderService) confirmPayment(ctx context.Context, order *domain.Order, paymentRef string) error {
	applied, err := s.orders.ConfirmPayment(ctx, order.ID, paymentRef)
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	if !applied {
		s.logger.Info("payment already confirmed", zap.String("order", order.ID))
		return nil
	}

	if err := s.carts.DeleteByUser(ctx, order.UserID); err != nil {
		s.logger.Warn("cart cleanup failed", zap.String("order", order.ID), zap.Error(err))
	}
	s.invalidateAfterStockChange(ctx, order.Items)
	// Receipt mail for card payments comes from the provider's own flow.
	return nil
}

// finishCheckout runs the shared post-creation steps for COD orders.
func (s *OrderService) finishCheckout(ctx context.Context, order *domain.Order, email string) {
	if err := s.carts.DeleteByUser(ctx, order.UserID); err != nil {
		s.logger.Warn("cart cleanup failed", zap.String("order", order.ID), zap.Error(err))
	}
	s.invalidateAfterStockChange(ctx, order.Items)
	s.notify(email, "Order confirmed",
		fmt.Sprintf("Your order %s was placed. Total: %.2f, payable on delivery.", order.ID, order.Total))
}

func (s *OrderService) GetOrder(ctx context.Context, id, userID string, admin bool) (*domain.Order, error) {
	return s.authorizedOrder(ctx, id, userID, admin)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	switch status {
	case domain.OrderStatusConfirmed, domain.OrderStatusDelivered, domain.OrderStatusCancelled:
	default:
		return ErrInvalidStatus
	}
	return s.orders.UpdateOrderStatus(ctx, id, status)
}

func (s *OrderService) SalesSummary(ctx context.Context, since time.Time) (domain.SalesSummary, error) {
	return s.orders.SalesSummary(ctx, since)
}

func (s *OrderService) TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.orders.TopProducts(ctx, since, limit)
}

func (s *OrderService) authorizedOrder(ctx context.Context, id, userID string, admin bool) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && order.UserID != userID {
		return nil, ErrNotOwner
	}
	return order, nil
}

// Stock moved, so cached listings may now lie about availability. Coarse
// purge of every product listing; per-product detail entries refresh on TTL.
func (s *OrderService) invalidateAfterStockChange(ctx context.Context, items []domain.OrderItem) {
	if _, err := s.cache.DeleteByPattern(ctx, "catalog:products:*"); err != nil {
		s.logger.Warn("listing invalidation failed", zap.Error(err))
	}
	for _, it := range items {
		if _, err := s.cache.DeleteByPattern(ctx, "catalog:product:"+it.ProductID); err != nil {
			s.logger.Warn("detail invalidation failed", zap.String("product", it.ProductID), zap.Error(err))
		}
	}
}

func (s *OrderService) notify(to, subject, body string) {
	if to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mailer.Send(ctx, port.Email{To: to, Subject: subject, Body: body}); err != nil {
		s.logger.Warn("email send failed", zap.String("to", to), zap.Error(err))
	}
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
