package order

import (
	"context"
	"errors"
	"testing"

	"grocery-backend/internal/domain"
)

type stubOrderRepo struct {
	order       *domain.Order
	getErr      error
	byUser      []domain.Order
	all         []domain.Order
	cancelCalls int
	cancelErr   error

	lastPayStatus   *domain.OrderPaymentStatus
	lastDelStatus   *domain.DeliveryStatus
	lastAllowedFrom []domain.DeliveryStatus
	updateCalls     int
	updateErr       error
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ int64) ([]domain.Order, error) {
	return s.byUser, nil
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.all, nil
}

func (s *stubOrderRepo) UpdateStatuses(_ context.Context, _ int64, pay *domain.OrderPaymentStatus, del *domain.DeliveryStatus) error {
	s.updateCalls++
	s.lastPayStatus = pay
	s.lastDelStatus = del
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.order != nil {
		if pay != nil {
			s.order.PaymentStatus = *pay
		}
		if del != nil {
			s.order.DeliveryStatus = *del
		}
	}
	return nil
}

func (s *stubOrderRepo) Cancel(_ context.Context, _ int64, allowedFrom []domain.DeliveryStatus) error {
	s.cancelCalls++
	s.lastAllowedFrom = allowedFrom
	if s.cancelErr != nil {
		return s.cancelErr
	}
	if s.order != nil {
		if len(allowedFrom) > 0 {
			ok := false
			for _, f := range allowedFrom {
				if s.order.DeliveryStatus == f {
					ok = true
				}
			}
			if !ok {
				return domain.ErrConflict
			}
		}
		s.order.PaymentStatus = domain.OrderPaymentCanceled
		s.order.DeliveryStatus = domain.DeliveryCanceled
	}
	return nil
}

var (
	owner    = domain.User{ID: 7, Role: domain.RoleUser}
	admin    = domain.User{ID: 1, Role: domain.RoleAdmin}
	stranger = domain.User{ID: 9, Role: domain.RoleUser}
)

func TestListScopedByRole(t *testing.T) {
	repo := &stubOrderRepo{
		byUser: []domain.Order{{ID: 1, UserID: 7}},
		all:    []domain.Order{{ID: 1, UserID: 7}, {ID: 2, UserID: 9}},
	}
	svc := New(repo)

	mine, err := svc.List(context.Background(), owner)
	if err != nil || len(mine) != 1 {
		t.Fatalf("owner list = %v, %v", mine, err)
	}
	everything, err := svc.List(context.Background(), admin)
	if err != nil || len(everything) != 2 {
		t.Fatalf("admin list = %v, %v", everything, err)
	}
}

func TestGetForbiddenForStranger(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: 5, UserID: 7}}
	svc := New(repo)

	if _, err := svc.Get(context.Background(), owner, 5); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, 5); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(context.Background(), stranger, 5); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger get: got %v, want ErrForbidden", err)
	}
}

func TestCancelByOwnerBeforeOnTheWay(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{
		ID: 5, UserID: 7,
		PaymentStatus:  domain.OrderPaymentPending,
		DeliveryStatus: domain.DeliveryAssigned,
	}}
	svc := New(repo)

	order, err := svc.Cancel(context.Background(), owner, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != domain.OrderPaymentCanceled || order.DeliveryStatus != domain.DeliveryCanceled {
		t.Fatalf("statuses = %s/%s, want canceled/canceled", order.PaymentStatus, order.DeliveryStatus)
	}
}

func TestCancelByOwnerOnTheWayRejected(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{
		ID: 5, UserID: 7,
		DeliveryStatus: domain.DeliveryOnTheWay,
	}}
	svc := New(repo)

	_, err := svc.Cancel(context.Background(), owner, 5)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}
	if repo.cancelCalls != 0 {
		t.Fatalf("cancel must not reach the repo, got %d calls", repo.cancelCalls)
	}
}

// courierRacesRepo hands the service a snapshot still in assigned, then
// advances the stored order to on_the_way, as a courier committing between
// the service's read and its cancel write would.
type courierRacesRepo struct {
	stubOrderRepo
}

func (s *courierRacesRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.stubOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := *order
	s.order.DeliveryStatus = domain.DeliveryOnTheWay
	return &snapshot, nil
}

func TestCancelByOwnerLosesRaceWithCourier(t *testing.T) {
	repo := &courierRacesRepo{stubOrderRepo: stubOrderRepo{order: &domain.Order{
		ID: 5, UserID: 7,
		PaymentStatus:  domain.OrderPaymentPending,
		DeliveryStatus: domain.DeliveryAssigned,
	}}}
	svc := New(repo)

	_, err := svc.Cancel(context.Background(), owner, 5)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if len(repo.lastAllowedFrom) == 0 {
		t.Fatal("owner cancel must be conditional on the delivery status")
	}
	if repo.order.DeliveryStatus != domain.DeliveryOnTheWay {
		t.Fatalf("delivery status = %s, courier's update must survive", repo.order.DeliveryStatus)
	}
	if repo.order.PaymentStatus == domain.OrderPaymentCanceled {
		t.Fatal("payment status must not be overwritten")
	}
}

func TestCancelByAdminIsUnconditional(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{
		ID: 5, UserID: 7,
		DeliveryStatus: domain.DeliveryOnTheWay,
	}}
	svc := New(repo)

	if _, err := svc.Cancel(context.Background(), admin, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastAllowedFrom != nil {
		t.Fatalf("admin cancel must not be conditional, got %v", repo.lastAllowedFrom)
	}
}

func TestCancelByAdminAlwaysAllowed(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{
		ID: 5, UserID: 7,
		DeliveryStatus: domain.DeliveryDelivered,
	}}
	svc := New(repo)

	if _, err := svc.Cancel(context.Background(), admin, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.cancelCalls != 1 {
		t.Fatalf("expected one cancel call, got %d", repo.cancelCalls)
	}
}

func TestCancelByStrangerForbidden(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: 5, UserID: 7, DeliveryStatus: domain.DeliveryPending}}
	svc := New(repo)

	_, err := svc.Cancel(context.Background(), stranger, 5)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestAdminUpdateRequiresAField(t *testing.T) {
	svc := New(&stubOrderRepo{})
	_, err := svc.AdminUpdate(context.Background(), 5, AdminUpdateInput{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: 5}}
	svc := New(repo)

	bogus := "shipped"
	_, err := svc.AdminUpdate(context.Background(), 5, AdminUpdateInput{DeliveryStatus: &bogus})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("update must not reach the repo, got %d calls", repo.updateCalls)
	}
}

func TestAdminUpdateOverridesFreely(t *testing.T) {
	// The admin path has no transition table: delivered -> pending is fine.
	repo := &stubOrderRepo{order: &domain.Order{ID: 5, DeliveryStatus: domain.DeliveryDelivered}}
	svc := New(repo)

	target := "pending"
	order, err := svc.AdminUpdate(context.Background(), 5, AdminUpdateInput{DeliveryStatus: &target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.DeliveryStatus != domain.DeliveryPending {
		t.Fatalf("delivery status = %s, want pending", order.DeliveryStatus)
	}
	if repo.lastPayStatus != nil {
		t.Fatalf("payment status must stay untouched, got %v", *repo.lastPayStatus)
	}
}
