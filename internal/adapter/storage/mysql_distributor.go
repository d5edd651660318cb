package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopyard/gocart/internal/core/domain"
)

type MySQLDistributors struct {
	db *sql.DB
}

func NewMySQLDistributors(db *sql.DB) *MySQLDistributors {
	return &MySQLDistributors{db: db}
}

func (m *MySQLDistributors) Create(ctx context.Context, a domain.DistributorApplication) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO distributor_applications (id, name, email, company, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Company, a.Message, a.Status, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (m *MySQLDistributors) GetByID(ctx context.Context, id string) (*domain.DistributorApplication, error) {
	var a domain.DistributorApplication
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, email, company, message, status, created_at
		FROM distributor_applications WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.Message, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &a, nil
}

func (m *MySQLDistributors) List(ctx context.Context) ([]domain.DistributorApplication, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, email, company, message, status, created_at
		FROM distributor_applications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.DistributorApplication
	for rows.Next() {
		var a domain.DistributorApplication
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.Message, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (m *MySQLDistributors) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	res, err := m.db.ExecContext(ctx,
		"UPDATE distributor_applications SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return requireRow(res)
}
