package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionRequest entrada para crear o actualizar una promoción.
type PromotionRequest struct {
	Name      string          `json:"name" validate:"required"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Discount  decimal.Decimal `json:"discount"`
}

// PromotionResponse salida de una promoción con su estado calculado.
type PromotionResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Discount  decimal.Decimal `json:"discount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PromotionListResponse lista paginada de promociones.
type PromotionListResponse struct {
	Items []PromotionResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// LoyaltyDiscountRequest entrada para crear o actualizar un nivel de fidelidad.
type LoyaltyDiscountRequest struct {
	Name           string          `json:"name" validate:"required"`
	RequiredPoints int             `json:"required_points" validate:"min=0"`
	Discount       decimal.Decimal `json:"discount"`
	Status         string          `json:"status" validate:"omitempty,oneof=active paused"`
}

// LoyaltyDiscountResponse salida de un nivel de fidelidad.
type LoyaltyDiscountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	RequiredPoints int             `json:"required_points"`
	Discount       decimal.Decimal `json:"discount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LoyaltyDiscountListResponse lista paginada de niveles.
type LoyaltyDiscountListResponse struct {
	Items []LoyaltyDiscountResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// MonetaryNormRequest body de PUT /api/monetary-norm.
type MonetaryNormRequest struct {
	MoneyPerPoint decimal.Decimal `json:"money_per_point"`
}

// MonetaryNormResponse valor de un punto.
type MonetaryNormResponse struct {
	MoneyPerPoint decimal.Decimal `json:"money_per_point"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
