// Package sales contiene el cálculo de precios de una venta. No tiene dependencias de infraestructura.
package sales

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line una línea del carrito ya resuelta (precio unitario de la talla).
type Line struct {
	ProductID string
	Size      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Input datos de entrada del cálculo.
type Input struct {
	Lines          []Line
	PromoPercent   decimal.Decimal
	LoyaltyPercent decimal.Decimal
	ShippingFee    decimal.Decimal
}

// Breakdown resultado del cálculo. Todos los importes redondeados a 2 decimales.
type Breakdown struct {
	Lines           []Line
	Subtotal        decimal.Decimal
	PromoAmount     decimal.Decimal
	LoyaltyAmount   decimal.Decimal
	DiscountedTotal decimal.Decimal
	ShippingFee     decimal.Decimal
	Total           decimal.Decimal
}

// MergeLines agrupa líneas con el mismo (producto, talla) sumando cantidades.
// Conserva el orden de primera aparición.
func MergeLines(lines []Line) []Line {
	type key struct{ product, size string }
	idx := make(map[key]int, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		k := key{l.ProductID, l.Size}
		if i, ok := idx[k]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[k] = len(out)
		out = append(out, l)
	}
	return out
}

// Compute aplica: subtotal - promo% - fidelidad% (mínimo 0) + envío (mínimo 0).
// Ambos porcentajes se calculan sobre el subtotal.
func Compute(in Input) Breakdown {
	lines := MergeLines(in.Lines)
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	promo := subtotal.Mul(in.PromoPercent).Div(hundred)
	loyalty := subtotal.Mul(in.LoyaltyPercent).Div(hundred)

	discounted := subtotal.Sub(promo).Sub(loyalty)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	total := discounted.Add(in.ShippingFee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Breakdown{
		Lines:           lines,
		Subtotal:        subtotal.Round(2),
		PromoAmount:     promo.Round(2),
		LoyaltyAmount:   loyalty.Round(2),
		DiscountedTotal: discounted.Round(2),
		ShippingFee:     in.ShippingFee.Round(2),
		Total:           total.Round(2),
	}
}

// PointsEarned puntos por una compra: floor((total - envío) / dineroPorPunto).
// Devuelve 0 si moneyPerPoint no es positivo o el neto es negativo.
func PointsEarned(total, shippingFee, moneyPerPoint decimal.Decimal) int {
	if !moneyPerPoint.IsPositive() {
		return 0
	}
	net := total.Sub(shippingFee)
	if !net.IsPositive() {
		return 0
	}
	return int(net.Div(moneyPerPoint).Floor().IntPart())
}
