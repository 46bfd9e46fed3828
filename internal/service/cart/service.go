package cart

import (
	"context"
	"errors"
	"fmt"

	"grocery-backend/internal/domain"
)

// Service owns the invariant of at most one active cart per user and the
// price-snapshot discipline on line items.
type Service struct {
	carts    cartRepo
	products productRepo
}

type cartRepo interface {
	Create(ctx context.Context, userID int64) (*domain.Cart, error)
	GetActiveByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	SetItem(ctx context.Context, cartID, productID int64, quantity int, unitAmount int64) error
	UpdateItem(ctx context.Context, cartID, itemID int64, quantity int, unitAmount int64) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(carts cartRepo, products productRepo) *Service {
	return &Service{carts: carts, products: products}
}

// GetActive returns the user's active cart, creating one lazily on first
// access. When concurrent first accesses race on the unique constraint, the
// loser re-reads the surviving cart instead of failing.
func (s *Service) GetActive(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.carts.GetActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cart, err = s.carts.Create(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, err
	}
	cart, err = s.carts.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("active cart creation race: %w", domain.ErrConflict)
		}
		return nil, err
	}
	return cart, nil
}

// AddItem upserts a line for the product, adding to any existing quantity,
// and refreshes the unit price snapshot to the product's current price.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.FieldError("quantity", "must be at least 1")
	}
	cart, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, &domain.ValidationError{Message: "product is inactive"}
	}

	newQty := quantity
	if existing := cart.Item(productID); existing != nil {
		newQty += existing.Quantity
	}
	if product.Quantity < newQty {
		return nil, &domain.ValidationError{Message: "insufficient product quantity"}
	}

	if err := s.carts.SetItem(ctx, cart.ID, productID, newQty, product.PriceAmount); err != nil {
		return nil, err
	}
	return s.carts.GetActiveByUser(ctx, userID)
}

// UpdateItem replaces the line's quantity and refreshes the price snapshot.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.FieldError("quantity", "must be at least 1")
	}
	cart, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemByID(itemID)
	if item == nil {
		return nil, fmt.Errorf("cart item: %w", domain.ErrNotFound)
	}

	product, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, &domain.ValidationError{Message: "product is inactive"}
	}
	if product.Quantity < quantity {
		return nil, &domain.ValidationError{Message: "insufficient product quantity"}
	}

	if err := s.carts.UpdateItem(ctx, cart.ID, itemID, quantity, product.PriceAmount); err != nil {
		return nil, err
	}
	return s.carts.GetActiveByUser(ctx, userID)
}

// RemoveItem deletes the line unconditionally once found.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) (*domain.Cart, error) {
	cart, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("cart item: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s.carts.GetActiveByUser(ctx, userID)
}
