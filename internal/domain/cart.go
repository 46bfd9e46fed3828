package domain

import "time"

type CartStatus string

const (
	CartActive    CartStatus = "active"
	CartConverted CartStatus = "converted"
	CartAbandoned CartStatus = "abandoned"
)

// Cart is the per-user staging area for an order. At most one cart per user
// is in CartActive at any time; checkout moves it to CartConverted exactly
// once and it is never reopened.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Items     []CartItem `json:"items"`
}

// Subtotal sums line totals over the snapshot prices.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

// Item returns the line for the given product, if present.
func (c Cart) Item(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemByID returns the line with the given id, if present.
func (c Cart) ItemByID(itemID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem carries a snapshot unit price captured at add/update time. The
// snapshot is refreshed on every mutation, not frozen at first add.
type CartItem struct {
	ID         int64     `json:"id"`
	CartID     int64     `json:"cartId"`
	ProductID  int64     `json:"productId"`
	Quantity   int       `json:"quantity"`
	UnitAmount int64     `json:"unitAmount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (i CartItem) LineTotal() int64 {
	return i.UnitAmount * int64(i.Quantity)
}
