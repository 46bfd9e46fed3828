package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceAmount int64     `json:"priceAmount"`
	Currency    string    `json:"currency"`
	Quantity    int       `json:"quantity"`
	IsActive    bool      `json:"isActive"`
	CategoryIDs []int64   `json:"categoryIds,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
