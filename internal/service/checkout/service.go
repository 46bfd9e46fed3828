package checkout

import (
	"context"
	"errors"

	"grocery-backend/internal/domain"
	orderrepo "grocery-backend/internal/repository/order"
)

// Service converts the user's active cart into an order, an initial payment
// and stock decrements as one atomic unit of work.
type Service struct {
	carts    cartRepo
	products productRepo
	orders   orderRepo
	currency string
}

type cartRepo interface {
	GetActiveByUser(ctx context.Context, userID int64) (*domain.Cart, error)
}

type productRepo interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
}

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CheckoutInput) (*domain.Order, error)
}

func New(carts cartRepo, products productRepo, orders orderRepo, currency string) *Service {
	return &Service{carts: carts, products: products, orders: orders, currency: currency}
}

type Input struct {
	PaymentProvider string `json:"payment_provider"`
	Address         string `json:"address"`
	PhoneNumber     string `json:"phone_number"`
}

// Checkout revalidates every cart item against the live catalog, then hands
// the conversion to the order repository as a single transaction. Any
// violation aborts the whole operation with nothing persisted; the
// repository repeats the checks under row locks so two concurrent checkouts
// cannot both take the same stock.
func (s *Service) Checkout(ctx context.Context, user domain.User, in Input) (*domain.Order, error) {
	provider, fieldErrs := validateInput(in)
	if len(fieldErrs) > 0 {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	cart, err := s.carts.GetActiveByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: "cart is empty"}
		}
		return nil, err
	}
	if cart.Status != domain.CartActive {
		return nil, &domain.ValidationError{Message: "cart is not active"}
	}
	if len(cart.Items) == 0 {
		return nil, &domain.ValidationError{Message: "cart is empty"}
	}

	ids := make([]int64, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if violations := validateItems(cart.Items, products); len(violations) > 0 {
		return nil, &domain.ValidationError{Message: "cart validation failed", Items: violations}
	}

	items := make([]orderrepo.CheckoutItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, orderrepo.CheckoutItem{
			ProductID:  item.ProductID,
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
		})
	}

	return s.orders.CreateFromCart(ctx, orderrepo.CheckoutInput{
		UserID:      user.ID,
		CartID:      cart.ID,
		Currency:    s.currency,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		Provider:    provider,
		Items:       items,
	})
}

func validateInput(in Input) (domain.PaymentProvider, map[string]string) {
	fieldErrs := map[string]string{}
	provider, ok := domain.ParsePaymentProvider(in.PaymentProvider)
	if !ok {
		fieldErrs["payment_provider"] = "must be one of: paypal, card"
	}
	if n := len(in.Address); n < 5 || n > 255 {
		fieldErrs["address"] = "must be between 5 and 255 characters"
	}
	if n := len(in.PhoneNumber); n < 7 || n > 50 {
		fieldErrs["phone_number"] = "must be between 7 and 50 characters"
	}
	return provider, fieldErrs
}

// validateItems checks every cart item against the live catalog and returns
// the full violation map; it never stops at the first failure so the caller
// can report all problems at once.
func validateItems(items []domain.CartItem, products map[int64]domain.Product) map[int64]string {
	violations := map[int64]string{}
	for _, item := range items {
		product, ok := products[item.ProductID]
		switch {
		case !ok:
			violations[item.ProductID] = "product no longer exists"
		case !product.IsActive:
			violations[item.ProductID] = "product is inactive"
		case product.PriceAmount != item.UnitAmount:
			violations[item.ProductID] = "product price has changed"
		case product.Quantity < item.Quantity:
			violations[item.ProductID] = "insufficient stock"
		}
	}
	return violations
}
