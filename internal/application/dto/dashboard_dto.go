package dto

import "github.com/shopspring/decimal"

// SalesMetricsDTO totales de un período.
type SalesMetricsDTO struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Invoices int             `json:"invoices"`
	Units    int             `json:"units"`
	// AverageTicket revenue / invoices, cero sin ventas.
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// LowStockDTO talla por reponer.
type LowStockDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// DashboardSummaryDTO resumen de la tienda para la pantalla de inicio.
type DashboardSummaryDTO struct {
	Today           SalesMetricsDTO `json:"today"`
	Month           SalesMetricsDTO `json:"month"`
	PendingInvoices int             `json:"pending_invoices"`
	TopProducts     []TopProductDTO `json:"top_products"`
	LowStock        []LowStockDTO   `json:"low_stock"`
	DateLabel       string          `json:"date_label"`
}
