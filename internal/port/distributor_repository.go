package port

import (
	"context"

	"github.com/shopyard/gocart/internal/core/domain"
)

type DistributorRepository interface {
	Create(ctx context.Context, a domain.DistributorApplication) error
	GetByID(ctx context.Context, id string) (*domain.DistributorApplication, error)
	List(ctx context.Context) ([]domain.DistributorApplication, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}
