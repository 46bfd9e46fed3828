package payment

import (
	"context"

	"grocery-backend/internal/domain"
)

type Repository interface {
	// Create inserts a new payment attempt. The single-active-attempt
	// invariant is re-checked inside the transaction; domain.ErrConflict is
	// returned when another active attempt already holds the slot.
	Create(ctx context.Context, orderID int64, provider domain.PaymentProvider, currency string, amount int64) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	// UpdateStatus moves the payment from `from` to `to`, optionally records
	// the provider payment id, and applies the order cascade when
	// orderStatus is non-nil, all in one transaction. domain.ErrConflict is
	// returned if the payment is no longer in `from`.
	UpdateStatus(ctx context.Context, id int64, from, to domain.PaymentStatus, providerPaymentID *string, orderStatus *domain.OrderPaymentStatus) error
}
