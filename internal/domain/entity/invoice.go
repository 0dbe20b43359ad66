package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura y de nota de importación.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCanceled  = "Canceled"
)

// Tipos de pedido.
const (
	OrderShop   = "shop"
	OrderOnline = "online"
)

// Invoice cabecera de una venta.
type Invoice struct {
	ID               string
	InvoiceCode      string
	CustomerID       string
	UserID           string // vendedor
	OrderType        string
	ShippingAddress  string
	ShippingFee      decimal.Decimal
	PromotionID      string
	PromoDiscount    decimal.Decimal // porcentaje aplicado por la promoción
	CustomerDiscount decimal.Decimal // porcentaje del nivel de fidelidad
	Subtotal         decimal.Decimal
	DiscountedTotal  decimal.Decimal
	TotalPrice       decimal.Decimal
	PointsAwarded    int
	Status           string
	Details          []InvoiceDetail
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Solo lectura (JOIN)
	CustomerName  string
	CustomerPhone string
	PromotionName string
	SellerName    string
}

// InvoiceDetail línea de factura (producto + talla).
type InvoiceDetail struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
	ProductName string // JOIN
	ProductSKU  string // JOIN
}

// LineTotal precio unitario por cantidad.
func (d InvoiceDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
