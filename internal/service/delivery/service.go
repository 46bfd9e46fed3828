package delivery

import (
	"context"
	"fmt"

	"grocery-backend/internal/domain"
)

// Service is the courier-facing view of orders. Couriers see the open queue
// and move orders along the fixed assigned -> on_the_way -> delivered path.
type Service struct {
	orders orderRepo
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOpenForDelivery(ctx context.Context) ([]domain.Order, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, from, to domain.DeliveryStatus) error
}

func New(orders orderRepo) *Service {
	return &Service{orders: orders}
}

// ListOpen returns the orders a courier can still act on.
func (s *Service) ListOpen(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOpenForDelivery(ctx)
}

// UpdateStatus advances an order's delivery status. Only the forward steps
// of the courier path are allowed here; anything else is the admin's
// override to make.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	next, ok := domain.ParseDeliveryStatus(status)
	if !ok {
		return nil, domain.FieldError("status", "invalid status")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanDeliveryTransition(order.DeliveryStatus, next) {
		return nil, fmt.Errorf("delivery status %s -> %s: %w", order.DeliveryStatus, next, domain.ErrInvalidTransition)
	}
	if err := s.orders.UpdateDeliveryStatus(ctx, orderID, order.DeliveryStatus, next); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}
