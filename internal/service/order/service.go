package order

import (
	"context"

	"grocery-backend/internal/domain"
)

// Service exposes order reads and the two status mutation paths: the admin
// override and role-aware cancellation.
type Service struct {
	orders orderRepo
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatuses(ctx context.Context, id int64, paymentStatus *domain.OrderPaymentStatus, deliveryStatus *domain.DeliveryStatus) error
	Cancel(ctx context.Context, id int64, allowedFrom []domain.DeliveryStatus) error
}

func New(orders orderRepo) *Service {
	return &Service{orders: orders}
}

// List returns all orders for admins and only the actor's own otherwise.
func (s *Service) List(ctx context.Context, actor domain.User) ([]domain.Order, error) {
	if actor.IsAdmin() {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, actor.ID)
}

// Get returns the order, scoped by ownership unless the actor is an admin.
func (s *Service) Get(ctx context.Context, actor domain.User, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

type AdminUpdateInput struct {
	PaymentStatus  *string `json:"payment_status"`
	DeliveryStatus *string `json:"delivery_status"`
}

// AdminUpdate is the unrestricted override path: admins may set either
// status directly with no single-step transition enforcement.
func (s *Service) AdminUpdate(ctx context.Context, id int64, in AdminUpdateInput) (*domain.Order, error) {
	if in.PaymentStatus == nil && in.DeliveryStatus == nil {
		return nil, &domain.ValidationError{Message: "at least one field must be provided"}
	}

	var payStatus *domain.OrderPaymentStatus
	var delStatus *domain.DeliveryStatus
	fieldErrs := map[string]string{}
	if in.PaymentStatus != nil {
		s, ok := domain.ParseOrderPaymentStatus(*in.PaymentStatus)
		if !ok {
			fieldErrs["payment_status"] = "invalid status"
		} else {
			payStatus = &s
		}
	}
	if in.DeliveryStatus != nil {
		s, ok := domain.ParseDeliveryStatus(*in.DeliveryStatus)
		if !ok {
			fieldErrs["delivery_status"] = "invalid status"
		} else {
			delStatus = &s
		}
	}
	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	if err := s.orders.UpdateStatuses(ctx, id, payStatus, delStatus); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

// Cancel applies the role-aware cancellation policy and, when allowed, moves
// both payment_status and delivery_status to canceled in one transaction.
// The policy check runs on a fresh read, but a courier can advance the order
// between that read and the write, so the write for non-admin actors is
// conditional on the delivery status still being one the owner may leave.
func (s *Service) Cancel(ctx context.Context, actor domain.User, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.CancelableBy(actor); err != nil {
		return nil, err
	}
	var allowedFrom []domain.DeliveryStatus
	if !actor.IsAdmin() {
		allowedFrom = domain.OwnerCancelableStatuses()
	}
	if err := s.orders.Cancel(ctx, id, allowedFrom); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}
