package entity

import "time"

// Customer cliente de la tienda. Se identifica por teléfono en caja.
type Customer struct {
	ID                string
	Name              string
	PhoneNumber       string // único
	Points            int
	LoyaltyDiscountID string // nivel de fidelidad vigente, vacío si ninguno
	SearchKey         string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Solo lectura (JOIN con loyalty_discounts)
	LoyaltyDiscount *LoyaltyDiscount
}
