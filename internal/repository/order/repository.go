package order

import (
	"context"

	"grocery-backend/internal/domain"
)

type CheckoutItem struct {
	ProductID  int64
	UnitAmount int64
	Quantity   int
}

type CheckoutInput struct {
	UserID      int64
	CartID      int64
	Currency    string
	Address     string
	PhoneNumber string
	Provider    domain.PaymentProvider
	Items       []CheckoutItem
}

type Repository interface {
	// CreateFromCart converts a cart into an order, order items, an initial
	// payment and per-product stock decrements, and closes the cart, all in
	// one transaction. Products are revalidated under row locks; if any item
	// fails, a *domain.ValidationError keyed by product id is returned and
	// nothing is persisted.
	CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// ListOpenForDelivery returns orders still in flight from the delivery
	// side (not delivered, not canceled).
	ListOpenForDelivery(ctx context.Context) ([]domain.Order, error)
	// UpdateStatuses is the admin override path; nil fields are left as-is.
	UpdateStatuses(ctx context.Context, id int64, paymentStatus *domain.OrderPaymentStatus, deliveryStatus *domain.DeliveryStatus) error
	// UpdateDeliveryStatus moves delivery_status from `from` to `to` and
	// returns domain.ErrConflict if another writer changed it first.
	UpdateDeliveryStatus(ctx context.Context, id int64, from, to domain.DeliveryStatus) error
	// Cancel sets both payment_status and delivery_status to canceled. When
	// allowedFrom is non-empty the update only applies while delivery_status
	// is still one of those values; a concurrent writer that moved the order
	// past them surfaces as domain.ErrConflict instead of being overwritten.
	Cancel(ctx context.Context, id int64, allowedFrom []domain.DeliveryStatus) error
}
