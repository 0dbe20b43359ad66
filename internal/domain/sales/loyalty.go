package sales

import "github.com/jhoicas/tienda-rfid-api/internal/domain/entity"

// ResolveTier devuelve el nivel activo con mayor RequiredPoints que no supere points.
// Ante empate gana el de mayor descuento. nil si ninguno aplica.
func ResolveTier(tiers []*entity.LoyaltyDiscount, points int) *entity.LoyaltyDiscount {
	var best *entity.LoyaltyDiscount
	for _, t := range tiers {
		if t == nil || t.Status != entity.LoyaltyActive || t.RequiredPoints > points {
			continue
		}
		switch {
		case best == nil,
			t.RequiredPoints > best.RequiredPoints,
			t.RequiredPoints == best.RequiredPoints && t.Discount.GreaterThan(best.Discount):
			best = t
		}
	}
	return best
}
