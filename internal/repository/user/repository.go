package user

import (
	"context"

	"grocery-backend/internal/domain"
)

type CreateUserInput struct {
	FullName       string
	Email          string
	PasswordHash   string
	Role           domain.Role
	DefaultAddress *string
	DefaultPhone   string
}

type Repository interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
