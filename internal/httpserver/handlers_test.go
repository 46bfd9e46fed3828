package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grocery-backend/internal/domain"
)

func TestCheckout_Created(t *testing.T) {
	deps := testDeps()
	body := `{"payment_provider":"card","address":"12 Herzl St, Tel Aviv","phone_number":"0501234567"}`
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCheckout_ValidationDetailsShape(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = &stubCheckoutSvc{err: &domain.ValidationError{
		Message: "cart validation failed",
		Items:   map[int64]string{42: "insufficient stock", 43: "product is inactive"},
	}}
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", strings.NewReader(`{"payment_provider":"card","address":"12 Herzl St","phone_number":"0501234567"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}

	var parsed struct {
		Error   string `json:"error"`
		Details struct {
			CartItems map[string]string `json:"cart_items"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if parsed.Error != "cart validation failed" {
		t.Fatalf("error = %q", parsed.Error)
	}
	if parsed.Details.CartItems["42"] != "insufficient stock" || parsed.Details.CartItems["43"] != "product is inactive" {
		t.Fatalf("unexpected cart_items: %+v", parsed.Details.CartItems)
	}
}

func TestCheckout_ConflictMapsTo409(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = &stubCheckoutSvc{err: domain.ErrConflict}
	req := httptest.NewRequest(http.MethodPost, "/orders/checkout", strings.NewReader(`{"payment_provider":"card","address":"12 Herzl St","phone_number":"0501234567"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetOrder_NotFoundMapsTo404(t *testing.T) {
	deps := testDeps()
	deps.OrderSvc = &stubOrderSvc{err: domain.ErrNotFound}
	req := httptest.NewRequest(http.MethodGet, "/orders/99", nil)
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCancelOrder_InvalidStateMapsTo400(t *testing.T) {
	deps := testDeps()
	deps.OrderSvc = &stubOrderSvc{err: domain.ErrInvalidState}
	req := httptest.NewRequest(http.MethodPost, "/orders/7/cancel", nil)
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdatePayment_InvalidTransitionMapsTo400(t *testing.T) {
	deps := testDeps()
	deps.PaymentSvc = &stubPaymentSvc{err: domain.ErrInvalidTransition}
	req := httptest.NewRequest(http.MethodPut, "/payments/5", strings.NewReader(`{"status":"captured"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer admin-token")

	rec := serve(t, deps, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAddCartItem_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"product_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateCartItem_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/cart/items/abc", strings.NewReader(`{"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreatePayment_RouteReachesService(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/payments/orders/7", strings.NewReader(`{"provider":"card"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer user-token")

	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRefundPayment_AdminOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/payments/5/refund", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/payments/5/refund", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = serve(t, testDeps(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDeliveryStatusUpdate(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/delivery/orders/7/status", strings.NewReader(`{"status":"on_the_way"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer delivery-token")

	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}
