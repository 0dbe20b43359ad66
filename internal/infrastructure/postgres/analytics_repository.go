package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics ingresos, facturas y unidades vendidas en [from, to].
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT COALESCE(SUM(i.total_price), 0),
	       COUNT(*),
	       COALESCE(SUM(u.units), 0)
	FROM invoices i
	LEFT JOIN LATERAL (
	    SELECT SUM(d.quantity) AS units FROM invoice_details d WHERE d.invoice_id = i.id
	) u ON true
	WHERE i.status = $1
	  AND i.created_at BETWEEN $2 AND $3`

	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, entity.StatusCompleted, from, to).Scan(&m.Revenue, &m.Invoices, &m.Units); err != nil {
		return m, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts los limit productos con mayor ingreso en el período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT p.id::text, p.sku, p.name,
	       SUM(d.quantity)                AS units,
	       SUM(d.quantity * d.unit_price) AS revenue
	FROM invoices i
	JOIN invoice_details d ON d.invoice_id = i.id
	JOIN products       p ON p.id         = d.product_id
	WHERE i.status = $1
	  AND i.created_at BETWEEN $2 AND $3
	GROUP BY p.id, p.sku, p.name
	ORDER BY revenue DESC, units DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, entity.StatusCompleted, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var out []repository.TopProduct
	for rows.Next() {
		var t repository.TopProduct
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.Units, &t.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetLowStock tallas con quantity <= threshold de productos no descontinuados.
func (r *AnalyticsRepo) GetLowStock(ctx context.Context, threshold, limit int) ([]repository.LowStockItem, error) {
	const query = `
	SELECT p.id::text, p.sku, p.name, s.size, s.quantity
	FROM product_sizes s
	JOIN products p ON p.id = s.product_id
	WHERE s.quantity <= $1
	  AND p.status <> $2
	ORDER BY s.quantity ASC, p.name ASC, s.size ASC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, threshold, entity.ProductDiscontinued, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetLowStock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.Name, &it.Size, &it.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.GetLowStock scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CountPendingInvoices pedidos en línea aún sin completar.
func (r *AnalyticsRepo) CountPendingInvoices(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE status = $1`, entity.StatusPending).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountPendingInvoices: %w", err)
	}
	return n, nil
}
