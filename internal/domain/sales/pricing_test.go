package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_DescuentosSobreSubtotal(t *testing.T) {
	b := Compute(Input{
		Lines: []Line{
			{ProductID: "p1", Size: "M", Quantity: 2, UnitPrice: d("100")},
			{ProductID: "p2", Size: "L", Quantity: 1, UnitPrice: d("50")},
		},
		PromoPercent:   d("10"),
		LoyaltyPercent: d("5"),
		ShippingFee:    d("20"),
	})

	assert.True(t, d("250").Equal(b.Subtotal))
	assert.True(t, d("25").Equal(b.PromoAmount))
	assert.True(t, d("12.5").Equal(b.LoyaltyAmount))
	assert.True(t, d("212.5").Equal(b.DiscountedTotal))
	assert.True(t, d("232.5").Equal(b.Total))
}

func TestCompute_DescuentoNuncaNegativo(t *testing.T) {
	b := Compute(Input{
		Lines:          []Line{{ProductID: "p1", Size: "S", Quantity: 1, UnitPrice: d("80")}},
		PromoPercent:   d("70"),
		LoyaltyPercent: d("50"),
		ShippingFee:    d("15"),
	})
	assert.True(t, b.DiscountedTotal.IsZero())
	assert.True(t, d("15").Equal(b.Total))
}

func TestCompute_EnvioNegativoSeAcotaACero(t *testing.T) {
	b := Compute(Input{
		Lines:       []Line{{ProductID: "p1", Size: "S", Quantity: 1, UnitPrice: d("10")}},
		ShippingFee: d("-30"),
	})
	assert.True(t, b.Total.IsZero())
}

func TestMergeLines_AgrupaPorProductoYTalla(t *testing.T) {
	out := MergeLines([]Line{
		{ProductID: "p1", Size: "M", Quantity: 1, UnitPrice: d("10")},
		{ProductID: "p2", Size: "M", Quantity: 1, UnitPrice: d("20")},
		{ProductID: "p1", Size: "M", Quantity: 3, UnitPrice: d("10")},
		{ProductID: "p1", Size: "L", Quantity: 1, UnitPrice: d("12")},
	})
	assert.Len(t, out, 3)
	assert.Equal(t, "p1", out[0].ProductID)
	assert.Equal(t, 4, out[0].Quantity)
	assert.Equal(t, "L", out[2].Size)
}

func TestPointsEarned(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		shipping string
		perPoint string
		want     int
	}{
		{"exacto", "1000", "0", "100", 10},
		{"trunca", "1099", "0", "100", 10},
		{"descuenta envío", "1050", "100", "100", 9},
		{"norma inválida", "1000", "0", "0", 0},
		{"neto negativo", "10", "20", "1", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsEarned(d(tt.total), d(tt.shipping), d(tt.perPoint)))
		})
	}
}
