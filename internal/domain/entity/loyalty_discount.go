package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un nivel de fidelidad.
const (
	LoyaltyActive = "active"
	LoyaltyPaused = "paused"
)

// LoyaltyDiscount nivel que otorga un descuento a partir de cierto puntaje.
type LoyaltyDiscount struct {
	ID             string
	Name           string
	RequiredPoints int
	Discount       decimal.Decimal // porcentaje
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MonetaryNorm cuánto dinero equivale a un punto (registro único).
type MonetaryNorm struct {
	ID            string
	MoneyPerPoint decimal.Decimal
	UpdatedAt     time.Time
}
