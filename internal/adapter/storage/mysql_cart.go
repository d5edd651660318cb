package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopyard/gocart/internal/core/domain"
)

type MySQLCarts struct {
	db *sql.DB
}

func NewMySQLCarts(db *sql.DB) *MySQLCarts {
	return &MySQLCarts{db: db}
}

func (m *MySQLCarts) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var c domain.Cart
	err := m.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = ?", userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	rows, err := m.db.QueryContext(ctx,
		"SELECT product_id, title, unit_price, quantity FROM cart_items WHERE cart_id = ?", c.ID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ProductID, &it.Title, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	return &c, rows.Err()
}

// Upsert replaces the cart's item set wholesale: simpler than diffing and the
// carts are small.
func (m *MySQLCarts) Upsert(ctx context.Context, c domain.Cart) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE updated_at = VALUES(updated_at)`,
		c.ID, c.UserID, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	// The cart row keeps its original id on conflict; resolve it for items.
	var cartID string
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM carts WHERE user_id = ?", c.UserID,
	).Scan(&cartID); err != nil {
		return fmt.Errorf("resolve cart id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	for _, it := range c.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, title, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			cartID, it.ProductID, it.Title, it.UnitPrice, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}
	return tx.Commit()
}

func (m *MySQLCarts) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
