package domain

import "time"

type OrderPaymentStatus string

const (
	OrderPaymentPending  OrderPaymentStatus = "pending"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentCanceled OrderPaymentStatus = "canceled"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

func ParseOrderPaymentStatus(v string) (OrderPaymentStatus, bool) {
	switch s := OrderPaymentStatus(v); s {
	case OrderPaymentPending, OrderPaymentPaid, OrderPaymentCanceled, OrderPaymentRefunded:
		return s, true
	}
	return "", false
}

type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryAssigned   DeliveryStatus = "assigned"
	DeliveryOnTheWay   DeliveryStatus = "on_the_way"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCanceled   DeliveryStatus = "canceled"
)

func ParseDeliveryStatus(v string) (DeliveryStatus, bool) {
	switch s := DeliveryStatus(v); s {
	case DeliveryPending, DeliveryProcessing, DeliveryAssigned,
		DeliveryOnTheWay, DeliveryDelivered, DeliveryCanceled:
		return s, true
	}
	return "", false
}

// deliveryTransitions is the restricted table for delivery-role actors.
// Admins bypass it entirely via the direct status override.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryAssigned: {DeliveryOnTheWay},
	DeliveryOnTheWay: {DeliveryDelivered},
}

// CanDeliveryTransition reports whether a delivery-role actor may move an
// order from current to next.
func CanDeliveryTransition(current, next DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a converted cart. Items and money fields
// never change after creation; only the two status columns evolve.
type Order struct {
	ID             int64              `json:"id"`
	UserID         int64              `json:"userId"`
	Currency       string             `json:"currency"`
	SubtotalAmount int64              `json:"subtotalAmount"`
	ShippingAmount int64              `json:"shippingAmount"`
	DiscountAmount int64              `json:"discountAmount"`
	TaxAmount      int64              `json:"taxAmount"`
	TotalAmount    int64              `json:"totalAmount"`
	PaymentStatus  OrderPaymentStatus `json:"paymentStatus"`
	DeliveryStatus DeliveryStatus     `json:"deliveryStatus"`
	Address        string             `json:"address"`
	PhoneNumber    string             `json:"phoneNumber"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Items          []OrderItem        `json:"items"`
	Payments       []Payment          `json:"payments"`
}

// RecalcTotals derives the money fields from the order items. Shipping,
// discount and tax are reserved columns and stay zero, so total equals
// subtotal.
func (o *Order) RecalcTotals() {
	o.SubtotalAmount = 0
	for _, it := range o.Items {
		o.SubtotalAmount += it.UnitAmount * int64(it.Quantity)
	}
	o.TotalAmount = o.SubtotalAmount
}

// ownerCancelable lists the delivery states in which the owner may still
// cancel: the shipment has not left yet.
var ownerCancelable = []DeliveryStatus{DeliveryPending, DeliveryProcessing, DeliveryAssigned}

// OwnerCancelableStatuses returns the delivery states an owner-initiated
// cancel must still find the order in. Callers use it to make the cancel
// write conditional so a concurrent courier update cannot be overwritten.
func OwnerCancelableStatuses() []DeliveryStatus {
	return append([]DeliveryStatus(nil), ownerCancelable...)
}

// CancelableBy decides whether actor may cancel the order in its current
// state. Admins may always cancel; the owner only before the shipment is
// on the way.
func (o Order) CancelableBy(actor User) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.ID != o.UserID {
		return ErrForbidden
	}
	for _, s := range ownerCancelable {
		if o.DeliveryStatus == s {
			return nil
		}
	}
	return ErrInvalidState
}

// ActivePayment returns the payment currently holding the order's single
// in-flight attempt slot, if any.
func (o Order) ActivePayment() *Payment {
	for i := range o.Payments {
		if o.Payments[i].Status.Active() {
			return &o.Payments[i]
		}
	}
	return nil
}

// OrderItem duplicates the cart item's snapshot at order-creation time and
// is never updated afterwards.
type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"orderId"`
	ProductID  int64 `json:"productId"`
	UnitAmount int64 `json:"unitAmount"`
	Quantity   int   `json:"quantity"`
}

func (i OrderItem) LineTotal() int64 {
	return i.UnitAmount * int64(i.Quantity)
}
