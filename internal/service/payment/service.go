package payment

import (
	"context"
	"errors"
	"fmt"

	"grocery-backend/internal/domain"
)

// Service drives payment attempts through the transition table and applies
// the order-level cascades the transitions imply.
type Service struct {
	payments paymentRepo
	orders   orderRepo
}

type paymentRepo interface {
	Create(ctx context.Context, orderID int64, provider domain.PaymentProvider, currency string, amount int64) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.PaymentStatus, providerPaymentID *string, orderStatus *domain.OrderPaymentStatus) error
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

func New(payments paymentRepo, orders orderRepo) *Service {
	return &Service{payments: payments, orders: orders}
}

// List returns every payment; the handler restricts this to admins.
func (s *Service) List(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.ListAll(ctx)
}

// Get returns the payment, scoped to admins and the owning order's user.
func (s *Service) Get(ctx context.Context, actor domain.User, id int64) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		order, err := s.orders.GetByID(ctx, payment.OrderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != actor.ID {
			return nil, domain.ErrForbidden
		}
	}
	return payment, nil
}

// CreateAttempt opens a new payment attempt for the order. The amount is
// always the order's current total; clients never supply it. At most one
// attempt may be active (created/authorized) at a time.
func (s *Service) CreateAttempt(ctx context.Context, actor domain.User, orderID int64, provider string) (*domain.Payment, error) {
	prov, ok := domain.ParsePaymentProvider(provider)
	if !ok {
		return nil, domain.FieldError("provider", "must be one of: paypal, card")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	switch order.PaymentStatus {
	case domain.OrderPaymentPaid, domain.OrderPaymentCanceled, domain.OrderPaymentRefunded:
		return nil, &domain.ValidationError{Message: "order cannot accept payments"}
	}
	if order.ActivePayment() != nil {
		return nil, &domain.ValidationError{Message: "an active payment already exists for this order"}
	}

	payment, err := s.payments.Create(ctx, order.ID, prov, order.Currency, order.TotalAmount)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent attempt won the slot between our read and the
			// repository's locked re-check.
			return nil, &domain.ValidationError{Message: "an active payment already exists for this order"}
		}
		return nil, err
	}
	return payment, nil
}

type UpdateInput struct {
	Status            string  `json:"status"`
	ProviderPaymentID *string `json:"provider_payment_id"`
}

// Update applies a provider-callback style transition. The move is checked
// against the transition table, and a capture cascades the owning order to
// paid inside the same transaction.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Payment, error) {
	next, ok := domain.ParsePaymentStatus(in.Status)
	if !ok {
		return nil, domain.FieldError("status", "invalid status")
	}
	if in.ProviderPaymentID != nil && len(*in.ProviderPaymentID) > 128 {
		return nil, domain.FieldError("provider_payment_id", "must be at most 128 characters")
	}

	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("payment status %s -> %s: %w", payment.Status, next, domain.ErrInvalidTransition)
	}

	var orderStatus *domain.OrderPaymentStatus
	if effect, ok := domain.PaymentTransitionEffect(next); ok {
		orderStatus = &effect
	}
	if err := s.payments.UpdateStatus(ctx, id, payment.Status, next, in.ProviderPaymentID, orderStatus); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

// Refund is the explicit refund intent: only captured payments can be
// refunded, and the owning order's payment status follows to refunded.
func (s *Service) Refund(ctx context.Context, id int64) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentCaptured {
		return nil, fmt.Errorf("only captured payments can be refunded: %w", domain.ErrInvalidState)
	}

	refunded := domain.OrderPaymentRefunded
	if err := s.payments.UpdateStatus(ctx, id, domain.PaymentCaptured, domain.PaymentRefunded, nil, &refunded); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}
