package cart

import (
	"context"
	"errors"
	"testing"

	"grocery-backend/internal/domain"
)

type stubCartRepo struct {
	active      *domain.Cart
	activeErr   error
	created     *domain.Cart
	createErr   error
	createCalls int
	getCalls    int

	lastSetCartID     int64
	lastSetProductID  int64
	lastSetQty        int
	lastSetUnitAmount int64
	setErr            error

	lastUpdateItemID     int64
	lastUpdateQty        int
	lastUpdateUnitAmount int64
	updateErr            error

	lastRemoveItemID int64
	removeErr        error

	// activeAfterCreate swaps in after a failed create, simulating the
	// concurrent winner's cart becoming visible on re-read.
	activeAfterCreate *domain.Cart
}

func (s *stubCartRepo) Create(_ context.Context, _ int64) (*domain.Cart, error) {
	s.createCalls++
	if s.createErr != nil {
		if s.activeAfterCreate != nil {
			s.active = s.activeAfterCreate
			s.activeErr = nil
		}
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubCartRepo) GetActiveByUser(_ context.Context, _ int64) (*domain.Cart, error) {
	s.getCalls++
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	return s.active, nil
}

func (s *stubCartRepo) SetItem(_ context.Context, cartID, productID int64, quantity int, unitAmount int64) error {
	s.lastSetCartID = cartID
	s.lastSetProductID = productID
	s.lastSetQty = quantity
	s.lastSetUnitAmount = unitAmount
	return s.setErr
}

func (s *stubCartRepo) UpdateItem(_ context.Context, _, itemID int64, quantity int, unitAmount int64) error {
	s.lastUpdateItemID = itemID
	s.lastUpdateQty = quantity
	s.lastUpdateUnitAmount = unitAmount
	return s.updateErr
}

func (s *stubCartRepo) RemoveItem(_ context.Context, _, itemID int64) error {
	s.lastRemoveItemID = itemID
	return s.removeErr
}

type stubProductRepo struct {
	products map[int64]*domain.Product
	err      error
}

func (s *stubProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func activeCart(items ...domain.CartItem) *domain.Cart {
	return &domain.Cart{ID: 11, UserID: 7, Status: domain.CartActive, Items: items}
}

func TestGetActiveReturnsExisting(t *testing.T) {
	repo := &stubCartRepo{active: activeCart()}
	svc := New(repo, &stubProductRepo{})

	first, err := svc.GetActive(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetActive(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart id, got %d and %d", first.ID, second.ID)
	}
	if repo.createCalls != 0 {
		t.Fatalf("create should not be called, got %d calls", repo.createCalls)
	}
}

func TestGetActiveCreatesWhenAbsent(t *testing.T) {
	repo := &stubCartRepo{activeErr: domain.ErrNotFound, created: activeCart()}
	svc := New(repo, &stubProductRepo{})

	cart, err := svc.GetActive(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.ID != 11 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create, got %d", repo.createCalls)
	}
}

func TestGetActiveRetriesOnCreationRace(t *testing.T) {
	winner := activeCart()
	repo := &stubCartRepo{
		activeErr:         domain.ErrNotFound,
		createErr:         domain.ErrAlreadyExists,
		activeAfterCreate: winner,
	}
	svc := New(repo, &stubProductRepo{})

	cart, err := svc.GetActive(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart != winner {
		t.Fatalf("expected the surviving cart, got %+v", cart)
	}
}

func TestAddItemSnapshotsCurrentPrice(t *testing.T) {
	repo := &stubCartRepo{active: activeCart()}
	products := &stubProductRepo{products: map[int64]*domain.Product{
		3: {ID: 3, PriceAmount: 500, Quantity: 10, IsActive: true},
	}}
	svc := New(repo, products)

	if _, err := svc.AddItem(context.Background(), 7, 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSetQty != 2 || repo.lastSetUnitAmount != 500 {
		t.Fatalf("set qty=%d unit=%d, want 2 and 500", repo.lastSetQty, repo.lastSetUnitAmount)
	}
}

func TestAddItemAccumulatesAndRefreshesSnapshot(t *testing.T) {
	// Existing line was snapshotted at 450; the product now costs 500, so
	// the upsert must carry the fresh price.
	repo := &stubCartRepo{active: activeCart(domain.CartItem{ID: 21, CartID: 11, ProductID: 3, Quantity: 1, UnitAmount: 450})}
	products := &stubProductRepo{products: map[int64]*domain.Product{
		3: {ID: 3, PriceAmount: 500, Quantity: 10, IsActive: true},
	}}
	svc := New(repo, products)

	if _, err := svc.AddItem(context.Background(), 7, 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSetQty != 3 {
		t.Fatalf("set qty = %d, want 3", repo.lastSetQty)
	}
	if repo.lastSetUnitAmount != 500 {
		t.Fatalf("unit amount = %d, want refreshed 500", repo.lastSetUnitAmount)
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	repo := &stubCartRepo{active: activeCart(domain.CartItem{ID: 21, ProductID: 3, Quantity: 9, UnitAmount: 500})}
	products := &stubProductRepo{products: map[int64]*domain.Product{
		3: {ID: 3, PriceAmount: 500, Quantity: 10, IsActive: true},
	}}
	svc := New(repo, products)

	_, err := svc.AddItem(context.Background(), 7, 3, 2)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemInactiveProduct(t *testing.T) {
	repo := &stubCartRepo{active: activeCart()}
	products := &stubProductRepo{products: map[int64]*domain.Product{
		3: {ID: 3, PriceAmount: 500, Quantity: 10, IsActive: false},
	}}
	svc := New(repo, products)

	_, err := svc.AddItem(context.Background(), 7, 3, 1)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemProductNotFound(t *testing.T) {
	repo := &stubCartRepo{active: activeCart()}
	svc := New(repo, &stubProductRepo{products: map[int64]*domain.Product{}})

	_, err := svc.AddItem(context.Background(), 7, 3, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateItemRefreshesSnapshot(t *testing.T) {
	repo := &stubCartRepo{active: activeCart(domain.CartItem{ID: 21, ProductID: 3, Quantity: 2, UnitAmount: 450})}
	products := &stubProductRepo{products: map[int64]*domain.Product{
		3: {ID: 3, PriceAmount: 500, Quantity: 10, IsActive: true},
	}}
	svc := New(repo, products)

	if _, err := svc.UpdateItem(context.Background(), 7, 21, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpdateQty != 5 || repo.lastUpdateUnitAmount != 500 {
		t.Fatalf("update qty=%d unit=%d, want 5 and 500", repo.lastUpdateQty, repo.lastUpdateUnitAmount)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	repo := &stubCartRepo{active: activeCart()}
	svc := New(repo, &stubProductRepo{})

	_, err := svc.UpdateItem(context.Background(), 7, 99, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveItemUnconditional(t *testing.T) {
	// Removal needs no stock or activity checks.
	repo := &stubCartRepo{active: activeCart(domain.CartItem{ID: 21, ProductID: 3, Quantity: 2, UnitAmount: 450})}
	svc := New(repo, &stubProductRepo{})

	if _, err := svc.RemoveItem(context.Background(), 7, 21); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRemoveItemID != 21 {
		t.Fatalf("removed item %d, want 21", repo.lastRemoveItemID)
	}
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	svc := New(&stubCartRepo{}, &stubProductRepo{})
	_, err := svc.AddItem(context.Background(), 7, 3, 0)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Fields["quantity"] == "" {
		t.Fatalf("expected quantity field error, got %+v", verr)
	}
}
