package product

import (
	"context"
	"strings"

	"grocery-backend/internal/domain"
	productrepo "grocery-backend/internal/repository/product"
)

// Service exposes the product catalog. Writes are admin-only at the router
// level; this layer only validates the payloads.
type Service struct {
	products        productRepo
	defaultCurrency string
}

type productRepo interface {
	Create(ctx context.Context, in productrepo.SaveProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in productrepo.SaveProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

func New(products productRepo, defaultCurrency string) *Service {
	return &Service{products: products, defaultCurrency: defaultCurrency}
}

type SaveInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceAmount int64   `json:"price_amount"`
	Currency    string  `json:"currency"`
	Quantity    int     `json:"quantity"`
	IsActive    *bool   `json:"is_active"`
	CategoryIDs []int64 `json:"category_ids"`
}

func (s *Service) validate(in SaveInput) error {
	fields := map[string]string{}
	if n := strings.TrimSpace(in.Name); len(n) < 1 || len(n) > 255 {
		fields["name"] = "must be between 1 and 255 characters"
	}
	if in.PriceAmount < 0 {
		fields["price_amount"] = "must not be negative"
	}
	if in.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if in.Currency != "" && len(in.Currency) != 3 {
		fields["currency"] = "must be a 3-letter code"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (s *Service) toRepoInput(in SaveInput) productrepo.SaveProductInput {
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return productrepo.SaveProductInput{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceAmount: in.PriceAmount,
		Currency:    currency,
		Quantity:    in.Quantity,
		IsActive:    active,
		CategoryIDs: in.CategoryIDs,
	}
}

func (s *Service) Create(ctx context.Context, in SaveInput) (*domain.Product, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, s.toRepoInput(in))
}

func (s *Service) Update(ctx context.Context, id int64, in SaveInput) (*domain.Product, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, s.toRepoInput(in))
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns catalog products. Non-admin callers only ever see active
// products; the handler forces ActiveOnly for them.
func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}
