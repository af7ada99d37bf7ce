package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/storefront-orders/internal/domains/users/domain"
	"github.com/Apurer/storefront-orders/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser registers a user; the email must be unused.
func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.ID != user.ID:
		return nil, ports.ErrEmailTaken
	case err != nil && !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	return s.repo.Save(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
