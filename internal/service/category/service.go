package category

import (
	"context"
	"strings"

	"grocery-backend/internal/domain"
)

type Service struct {
	categories categoryRepo
}

type categoryRepo interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

func New(categories categoryRepo) *Service {
	return &Service{categories: categories}
}

func validName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if len(n) < 1 || len(n) > 120 {
		return "", domain.FieldError("name", "must be between 1 and 120 characters")
	}
	return n, nil
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	n, err := validName(name)
	if err != nil {
		return nil, err
	}
	return s.categories.Create(ctx, n)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) Rename(ctx context.Context, id int64, name string) (*domain.Category, error) {
	n, err := validName(name)
	if err != nil {
		return nil, err
	}
	return s.categories.Rename(ctx, id, n)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}
