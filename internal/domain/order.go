package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID       uuid.UUID
	User     User
	Items    []CartItem
	Shipping ShippingDetails

	Subtotal    Money
	ShippingFee Money
	Total       Money

	PlacedAt time.Time
}

// ShippingDetails is the checkout form. Card data is only validated, never kept on
// the order beyond its last four digits.
type ShippingDetails struct {
	Name       string `json:"name" validate:"min=2"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"min=5"`
	City       string `json:"city" validate:"min=2"`
	Phone      string `json:"phone" validate:"min=10"`
	CardNumber string `json:"card_number" validate:"len=16,numeric"`
	ExpiryDate string `json:"expiry_date" validate:"expiry"`
	CVV        string `json:"cvv" validate:"len=3,numeric"`
}
