package product

import (
	"context"

	"grocery-backend/internal/domain"
)

type SaveProductInput struct {
	Name        string
	Description string
	PriceAmount int64
	Currency    string
	Quantity    int
	IsActive    bool
	CategoryIDs []int64
}

type ListFilter struct {
	ActiveOnly bool
	CategoryID *int64
	Search     string
}

type Repository interface {
	Create(ctx context.Context, in SaveProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in SaveProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetByIDs returns the products that exist, keyed by id; missing ids are
	// simply absent from the map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
