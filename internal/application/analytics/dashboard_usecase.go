// Package analytics contiene el resumen de ventas y existencias de la
// pantalla de inicio.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardTopProducts = 5
	dashboardLowStockMax = 20
	// DefaultLowStockThreshold umbral cuando el cliente no envía uno.
	DefaultLowStockThreshold = 3
)

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary ejecuta las consultas en paralelo; cualquier error cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, lowStockThreshold int) (*dto.DashboardSummaryDTO, error) {
	if lowStockThreshold < 0 {
		return nil, domain.Invalid("low_stock no puede ser negativo")
	}
	now := uc.now()

	// Hoy: 00:00:00.000 a 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		today, month repository.SalesMetrics
		top          []repository.TopProduct
		low          []repository.LowStockItem
		pending      int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if today, err = uc.analyticsRepo.GetSalesMetrics(gctx, todayStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if month, err = uc.analyticsRepo.GetSalesMetrics(gctx, monthStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if top, err = uc.analyticsRepo.GetTopProducts(gctx, monthStart, todayEnd, dashboardTopProducts); err != nil {
			return fmt.Errorf("dashboard: más vendidos: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if low, err = uc.analyticsRepo.GetLowStock(gctx, lowStockThreshold, dashboardLowStockMax); err != nil {
			return fmt.Errorf("dashboard: existencias bajas: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if pending, err = uc.analyticsRepo.CountPendingInvoices(gctx); err != nil {
			return fmt.Errorf("dashboard: pedidos pendientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		Today:           toMetrics(today),
		Month:           toMetrics(month),
		PendingInvoices: pending,
		TopProducts:     make([]dto.TopProductDTO, 0, len(top)),
		LowStock:        make([]dto.LowStockDTO, 0, len(low)),
		DateLabel:       monthLabel(now),
	}
	for _, t := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID: t.ProductID, SKU: t.SKU, Name: t.Name, Units: t.Units, Revenue: t.Revenue.Round(2),
		})
	}
	for _, l := range low {
		out.LowStock = append(out.LowStock, dto.LowStockDTO{
			ProductID: l.ProductID, SKU: l.SKU, Name: l.Name, Size: l.Size, Quantity: l.Quantity,
		})
	}
	return out, nil
}

func toMetrics(m repository.SalesMetrics) dto.SalesMetricsDTO {
	out := dto.SalesMetricsDTO{Revenue: m.Revenue.Round(2), Invoices: m.Invoices, Units: m.Units, AverageTicket: decimal.Zero}
	if m.Invoices > 0 {
		out.AverageTicket = m.Revenue.Div(decimal.NewFromInt(int64(m.Invoices))).Round(2)
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
