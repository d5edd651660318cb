package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

type DistributorService struct {
	repo   port.DistributorRepository
	mailer port.Mailer
	logger *zap.Logger
}

func NewDistributorService(repo port.DistributorRepository, mailer port.Mailer, logger *zap.Logger) *DistributorService {
	return &DistributorService{repo: repo, mailer: mailer, logger: logger}
}

func (s *DistributorService) Apply(ctx context.Context, name, email, company, message string) (*domain.DistributorApplication, error) {
	a := domain.DistributorApplication{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Company:   company,
		Message:   message,
		Status:    domain.ApplicationPending,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return &a, nil
}

func (s *DistributorService) List(ctx context.Context) ([]domain.DistributorApplication, error) {
	apps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []domain.DistributorApplication{}
	}
	return apps, nil
}

func (s *DistributorService) SetStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	if status != domain.ApplicationApproved && status != domain.ApplicationRejected {
		return ErrInvalidStatus
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	subject := "Distributor application update"
	body := fmt.Sprintf("Hi %s, your distributor application was %s.", app.Name, status)
	mailCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mailer.Send(mailCtx, port.Email{To: app.Email, Subject: subject, Body: body}); err != nil {
		s.logger.Warn("application mail failed", zap.String("application", id), zap.Error(err))
	}
	return nil
}
