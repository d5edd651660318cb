package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

type MySQLOrders struct {
	db *sql.DB
}

func NewMySQLOrders(db *sql.DB) *MySQLOrders {
	return &MySQLOrders{db: db}
}

// CreateWithStockDecrement persists a cash-on-delivery order. Stock moves in
// the same transaction via a conditional decrement; a line over stock leaves
// zero rows affected, which aborts the whole order.
func (m *MySQLOrders) CreateWithStockDecrement(ctx context.Context, o domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, it := range o.Items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - ?, updated_at = NOW()
			WHERE id = ? AND stock >= ?`,
			it.Quantity, it.ProductID, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			return &port.InsufficientStockError{ProductID: it.ProductID}
		}
	}

	if err := insertOrder(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *MySQLOrders) Create(ctx context.Context, o domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertOrder(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

func insertOrder(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders
			(id, user_id, payment_method, payment_status, order_status, total,
			 checkout_session_id, payment_ref,
			 ship_name, ship_line1, ship_line2, ship_city, ship_postal_code,
			 ship_country, ship_phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.PaymentMethod, o.PaymentStatus, o.OrderStatus, o.Total,
		o.CheckoutSessionID, o.PaymentRef,
		o.Address.FullName, o.Address.Line1, o.Address.Line2, o.Address.City,
		o.Address.PostalCode, o.Address.Country, o.Address.Phone,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, title, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			o.ID, it.ProductID, it.Title, it.UnitPrice, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (m *MySQLOrders) SetCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	res, err := m.db.ExecContext(ctx,
		"UPDATE orders SET checkout_session_id = ?, updated_at = NOW() WHERE id = ?",
		sessionID, orderID)
	if err != nil {
		return fmt.Errorf("set checkout session: %w", err)
	}
	return requireRow(res)
}

// ConfirmPayment is the idempotency gate for payment callbacks: the order row
// is locked, its payment status checked, and the confirmed-payment side
// effects applied only when the order is not yet paid.
func (m *MySQLOrders) ConfirmPayment(ctx context.Context, orderID, paymentRef string) (bool, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT payment_status FROM orders WHERE id = ? FOR UPDATE", orderID,
	).Scan(&status)
	if err != nil {
		return false, translateErr(err)
	}
	if domain.PaymentStatus(status) == domain.PaymentStatusPaid {
		// Already processed: commit the no-op so the lock releases cleanly.
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = ?, order_status = ?, payment_ref = ?, updated_at = NOW()
		WHERE id = ?`,
		domain.PaymentStatusPaid, domain.OrderStatusConfirmed, paymentRef, orderID,
	)
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT product_id, quantity FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return false, fmt.Errorf("load order items: %w", err)
	}
	type line struct {
		productID string
		quantity  int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return false, fmt.Errorf("scan order item: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate order items: %w", err)
	}

	// The order is already paid for, so the decrement is best-effort and
	// floors at zero rather than voiding the order.
	for _, l := range lines {
		_, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = GREATEST(stock - ?, 0), updated_at = NOW()
			WHERE id = ?`,
			l.quantity, l.productID,
		)
		if err != nil {
			return false, fmt.Errorf("decrement stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

const orderColumns = `id, user_id, payment_method, payment_status, order_status, total,
	checkout_session_id, payment_ref,
	ship_name, ship_line1, ship_line2, ship_city, ship_postal_code, ship_country,
	ship_phone, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.Total,
		&o.CheckoutSessionID, &o.PaymentRef,
		&o.Address.FullName, &o.Address.Line1, &o.Address.Line2, &o.Address.City,
		&o.Address.PostalCode, &o.Address.Country, &o.Address.Phone,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (m *MySQLOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE id = ?", orderColumns), id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := m.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *MySQLOrders) GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM orders WHERE checkout_session_id = ?", orderColumns), sessionID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, translateErr(err)
	}
	if err := m.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *MySQLOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return m.list(ctx, "WHERE user_id = ?", userID)
}

func (m *MySQLOrders) List(ctx context.Context) ([]domain.Order, error) {
	return m.list(ctx, "")
}

func (m *MySQLOrders) list(ctx context.Context, cond string, args ...any) ([]domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY created_at DESC", orderColumns, cond)
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	for i := range orders {
		if err := m.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (m *MySQLOrders) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := m.db.QueryContext(ctx,
		"SELECT product_id, title, unit_price, quantity FROM order_items WHERE order_id = ?", o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Title, &it.UnitPrice, &it.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (m *MySQLOrders) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := m.db.ExecContext(ctx,
		"UPDATE orders SET order_status = ?, updated_at = NOW() WHERE id = ?",
		status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRow(res)
}

func (m *MySQLOrders) SalesSummary(ctx context.Context, since time.Time) (domain.SalesSummary, error) {
	var s domain.SalesSummary
	err := m.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(payment_status = 'paid'), 0),
			COALESCE(SUM(payment_status = 'pending'), 0),
			COALESCE(SUM(CASE WHEN payment_status = 'paid' OR payment_method = 'cod' THEN total ELSE 0 END), 0)
		FROM orders
		WHERE created_at >= ? AND order_status <> 'cancelled'`, since,
	).Scan(&s.Orders, &s.Paid, &s.Pending, &s.Revenue)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}

func (m *MySQLOrders) TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.TopProduct, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT oi.product_id, oi.title, SUM(oi.quantity) AS units
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= ? AND o.order_status <> 'cancelled'
		GROUP BY oi.product_id, oi.title
		ORDER BY units DESC
		LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var top []domain.TopProduct
	for rows.Next() {
		var t domain.TopProduct
		if err := rows.Scan(&t.ProductID, &t.Title, &t.Units); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
