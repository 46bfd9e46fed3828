package domain

import "time"

type PaymentProvider string

const (
	ProviderPayPal PaymentProvider = "paypal"
	ProviderCard   PaymentProvider = "card"
)

func ParsePaymentProvider(v string) (PaymentProvider, bool) {
	switch p := PaymentProvider(v); p {
	case ProviderPayPal, ProviderCard:
		return p, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentCreated    PaymentStatus = "created"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCaptured   PaymentStatus = "captured"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCanceled   PaymentStatus = "canceled"
	PaymentRefunded   PaymentStatus = "refunded"
)

func ParsePaymentStatus(v string) (PaymentStatus, bool) {
	switch s := PaymentStatus(v); s {
	case PaymentCreated, PaymentAuthorized, PaymentCaptured,
		PaymentFailed, PaymentCanceled, PaymentRefunded:
		return s, true
	}
	return "", false
}

// Active reports whether the status holds the order's single in-flight
// attempt slot. An order never has two payments in an active status.
func (s PaymentStatus) Active() bool {
	return s == PaymentCreated || s == PaymentAuthorized
}

// paymentTransitions is the legal transition table. States absent from the
// map (failed, canceled, refunded) are terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentCreated:    {PaymentAuthorized, PaymentFailed, PaymentCanceled},
	PaymentAuthorized: {PaymentCaptured, PaymentCanceled, PaymentRefunded},
	PaymentCaptured:   {PaymentRefunded},
}

// CanTransitionTo reports whether a payment may move from s to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentTransitionEffect returns the order payment status implied by moving
// a payment into next, if the transition cascades to the owning order. The
// cascade is applied by the caller in the same transaction as the payment
// update.
func PaymentTransitionEffect(next PaymentStatus) (OrderPaymentStatus, bool) {
	if next == PaymentCaptured {
		return OrderPaymentPaid, true
	}
	return "", false
}

// Payment is one attempt to settle an order. Amount is server-assigned from
// the order total at creation time and never client-supplied.
type Payment struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"orderId"`
	Provider          PaymentProvider `json:"provider"`
	Status            PaymentStatus   `json:"status"`
	Currency          string          `json:"currency"`
	Amount            int64           `json:"amount"`
	ProviderPaymentID *string         `json:"providerPaymentId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}
