package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics totales de facturas completadas en un período.
type SalesMetrics struct {
	Revenue  decimal.Decimal // suma de total_price
	Invoices int
	Units    int
}

// TopProduct producto con su venta acumulada en el período.
type TopProduct struct {
	ProductID string
	SKU       string
	Name      string
	Units     int
	Revenue   decimal.Decimal // suma de quantity * unit_price de las líneas
}

// LowStockItem talla con existencias en o bajo el umbral.
type LowStockItem struct {
	ProductID string
	SKU       string
	Name      string
	Size      string
	Quantity  int
}

// AnalyticsRepository consultas de solo lectura para el tablero.
// Solo cuentan las facturas en estado Completed.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
	// GetLowStock ordena por cantidad ascendente.
	GetLowStock(ctx context.Context, threshold, limit int) ([]LowStockItem, error)
	CountPendingInvoices(ctx context.Context) (int, error)
}
