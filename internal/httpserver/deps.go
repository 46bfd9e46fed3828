package httpserver

import (
	"context"

	"grocery-backend/internal/domain"
	productrepo "grocery-backend/internal/repository/product"
	authsvc "grocery-backend/internal/service/auth"
	checkoutsvc "grocery-backend/internal/service/checkout"
	ordersvc "grocery-backend/internal/service/order"
	paymentsvc "grocery-backend/internal/service/payment"
	productsvc "grocery-backend/internal/service/product"
)

// Deps carries the services the router wires handlers to. Interfaces keep
// handler tests on hand-written stubs.
type Deps struct {
	AuthSvc     AuthService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
	PaymentSvc  PaymentService
	DeliverySvc DeliveryService
	ProductSvc  ProductService
	CategorySvc CategoryService
}

type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
}

type CartService interface {
	GetActive(ctx context.Context, userID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*domain.Cart, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, user domain.User, in checkoutsvc.Input) (*domain.Order, error)
}

type OrderService interface {
	List(ctx context.Context, actor domain.User) ([]domain.Order, error)
	Get(ctx context.Context, actor domain.User, id int64) (*domain.Order, error)
	AdminUpdate(ctx context.Context, id int64, in ordersvc.AdminUpdateInput) (*domain.Order, error)
	Cancel(ctx context.Context, actor domain.User, id int64) (*domain.Order, error)
}

type PaymentService interface {
	List(ctx context.Context) ([]domain.Payment, error)
	Get(ctx context.Context, actor domain.User, id int64) (*domain.Payment, error)
	CreateAttempt(ctx context.Context, actor domain.User, orderID int64, provider string) (*domain.Payment, error)
	Update(ctx context.Context, id int64, in paymentsvc.UpdateInput) (*domain.Payment, error)
	Refund(ctx context.Context, id int64) (*domain.Payment, error)
}

type DeliveryService interface {
	ListOpen(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error)
}

type ProductService interface {
	Create(ctx context.Context, in productsvc.SaveInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in productsvc.SaveInput) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
