package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de una promoción.
const (
	PromotionNotApplied = "Not Applied"
	PromotionActive     = "Active"
	PromotionExpired    = "Expired"
)

// Promotion código promocional con descuento porcentual en una ventana de tiempo.
type Promotion struct {
	ID        string
	Name      string // el código que escribe el cajero
	StartTime time.Time
	EndTime   time.Time
	Discount  decimal.Decimal // porcentaje
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusAt calcula el estado de la promoción en el instante now.
func (p *Promotion) StatusAt(now time.Time) string {
	switch {
	case now.Before(p.StartTime):
		return PromotionNotApplied
	case now.After(p.EndTime):
		return PromotionExpired
	default:
		return PromotionActive
	}
}
