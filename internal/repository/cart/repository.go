package cart

import (
	"context"

	"grocery-backend/internal/domain"
)

type Repository interface {
	// Create inserts a new active cart for the user. It returns
	// domain.ErrAlreadyExists when the unique (user, status) constraint
	// rejects a duplicate active cart, so callers can re-read the winner.
	Create(ctx context.Context, userID int64) (*domain.Cart, error)
	GetActiveByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	// SetItem upserts the line for (cart, product) with an absolute quantity
	// and a fresh unit price snapshot.
	SetItem(ctx context.Context, cartID, productID int64, quantity int, unitAmount int64) error
	// UpdateItem rewrites quantity and price snapshot of an existing line.
	UpdateItem(ctx context.Context, cartID, itemID int64, quantity int, unitAmount int64) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
}
