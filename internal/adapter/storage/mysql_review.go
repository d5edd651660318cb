package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopyard/gocart/internal/core/domain"
)

type MySQLReviews struct {
	db *sql.DB
}

func NewMySQLReviews(db *sql.DB) *MySQLReviews {
	return &MySQLReviews{db: db}
}

func (m *MySQLReviews) Create(ctx context.Context, r domain.Review) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProductID, r.UserID, r.Rating, r.Comment, r.CreatedAt, r.UpdatedAt,
	)
	return translateErr(err)
}

func (m *MySQLReviews) Update(ctx context.Context, r domain.Review) error {
	res, err := m.db.ExecContext(ctx,
		"UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?",
		r.Rating, r.Comment, r.UpdatedAt, r.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return requireRow(res)
}

func (m *MySQLReviews) Delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return requireRow(res)
}

func (m *MySQLReviews) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var r domain.Review
	err := m.db.QueryRowContext(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews WHERE id = ?`, id,
	).Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &r, nil
}

func (m *MySQLReviews) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (m *MySQLReviews) SetProductRating(ctx context.Context, productID string, avg float64, count int) error {
	res, err := m.db.ExecContext(ctx,
		"UPDATE products SET average_rating = ?, rating_count = ?, updated_at = NOW() WHERE id = ?",
		avg, count, productID)
	if err != nil {
		return fmt.Errorf("set product rating: %w", err)
	}
	return requireRow(res)
}
