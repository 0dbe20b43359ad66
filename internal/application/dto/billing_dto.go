package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest línea del carrito (producto + talla + cantidad). El precio lo fija el servidor.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// El cliente se resuelve por teléfono; si no existe se crea con CustomerName.
type CreateInvoiceRequest struct {
	CustomerPhone   string            `json:"customer_phone"`
	CustomerName    string            `json:"customer_name"`
	OrderType       string            `json:"order_type"` // shop | online
	PromoCode       string            `json:"promo_code,omitempty"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	ShippingFee     decimal.Decimal   `json:"shipping_fee"`
	Items           []CartItemRequest `json:"items"`
}

// PriceQuoteRequest body para POST /api/invoices/quote (mismo cálculo sin persistir).
type PriceQuoteRequest = CreateInvoiceRequest

// PriceQuoteResponse desglose del cálculo de precio.
type PriceQuoteResponse struct {
	Subtotal         decimal.Decimal         `json:"subtotal"`
	PromoDiscount    decimal.Decimal         `json:"promo_discount"`
	CustomerDiscount decimal.Decimal         `json:"customer_discount"`
	PromoAmount      decimal.Decimal         `json:"promo_amount"`
	LoyaltyAmount    decimal.Decimal         `json:"loyalty_amount"`
	DiscountedTotal  decimal.Decimal         `json:"discounted_total"`
	ShippingFee      decimal.Decimal         `json:"shipping_fee"`
	TotalPrice       decimal.Decimal         `json:"total_price"`
	Lines            []InvoiceDetailResponse `json:"lines"`
}

// InvoiceListRequest filtros del listado de facturas.
type InvoiceListRequest struct {
	PageRequest
	From *time.Time
	To   *time.Time
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID               string                  `json:"id"`
	InvoiceCode      string                  `json:"invoice_code"`
	CustomerID       string                  `json:"customer_id"`
	CustomerName     string                  `json:"customer_name,omitempty"`
	CustomerPhone    string                  `json:"customer_phone,omitempty"`
	UserID           string                  `json:"user_id"`
	SellerName       string                  `json:"seller_name,omitempty"`
	OrderType        string                  `json:"order_type"`
	ShippingAddress  string                  `json:"shipping_address,omitempty"`
	ShippingFee      decimal.Decimal         `json:"shipping_fee"`
	PromotionID      string                  `json:"promotion_id,omitempty"`
	PromotionName    string                  `json:"promotion_name,omitempty"`
	PromoDiscount    decimal.Decimal         `json:"promo_discount"`
	CustomerDiscount decimal.Decimal         `json:"customer_discount"`
	Subtotal         decimal.Decimal         `json:"subtotal"`
	DiscountedTotal  decimal.Decimal         `json:"discounted_total"`
	TotalPrice       decimal.Decimal         `json:"total_price"`
	PointsAwarded    int                     `json:"points_awarded"`
	Status           string                  `json:"status"`
	Details          []InvoiceDetailResponse `json:"details"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
