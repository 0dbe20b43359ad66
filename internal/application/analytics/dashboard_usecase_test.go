package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

type fakeAnalytics struct {
	metrics   map[time.Time]repository.SalesMetrics // por inicio de rango
	top       []repository.TopProduct
	low       []repository.LowStockItem
	pending   int
	threshold int
	err       error
}

func (f *fakeAnalytics) GetSalesMetrics(_ context.Context, from, _ time.Time) (repository.SalesMetrics, error) {
	return f.metrics[from], f.err
}

func (f *fakeAnalytics) GetTopProducts(_ context.Context, _, _ time.Time, limit int) ([]repository.TopProduct, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeAnalytics) GetLowStock(_ context.Context, threshold, _ int) ([]repository.LowStockItem, error) {
	f.threshold = threshold
	return f.low, nil
}

func (f *fakeAnalytics) CountPendingInvoices(context.Context) (int, error) {
	return f.pending, nil
}

func TestGetSummary(t *testing.T) {
	now := time.Date(2026, 2, 14, 16, 30, 0, 0, time.UTC)
	todayStart := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeAnalytics{
		metrics: map[time.Time]repository.SalesMetrics{
			todayStart: {Revenue: decimal.NewFromInt(90000), Invoices: 3, Units: 4},
			monthStart: {Revenue: decimal.RequireFromString("1000000.456"), Invoices: 0, Units: 40},
		},
		top:     []repository.TopProduct{{ProductID: "p1", SKU: "CAM-001", Name: "Camiseta", Units: 10, Revenue: decimal.NewFromInt(350000)}},
		low:     []repository.LowStockItem{{ProductID: "p2", SKU: "PAN-001", Name: "Jean", Size: "M", Quantity: 1}},
		pending: 2,
	}
	uc := NewDashboardUseCase(repo)
	uc.now = func() time.Time { return now }

	out, err := uc.GetSummary(context.Background(), 5)
	require.NoError(t, err)

	assert.True(t, out.Today.Revenue.Equal(decimal.NewFromInt(90000)))
	assert.True(t, out.Today.AverageTicket.Equal(decimal.NewFromInt(30000)))
	assert.True(t, out.Month.Revenue.Equal(decimal.RequireFromString("1000000.46")))
	assert.True(t, out.Month.AverageTicket.IsZero(), "sin facturas el ticket promedio es cero")
	assert.Equal(t, 2, out.PendingInvoices)
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "CAM-001", out.TopProducts[0].SKU)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, "M", out.LowStock[0].Size)
	assert.Equal(t, 5, repo.threshold)
	assert.Equal(t, "Febrero 2026", out.DateLabel)
}

func TestGetSummary_Errores(t *testing.T) {
	uc := NewDashboardUseCase(&fakeAnalytics{err: errors.New("db caída")})
	_, err := uc.GetSummary(context.Background(), 3)
	assert.ErrorContains(t, err, "db caída")

	_, err = uc.GetSummary(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Diciembre 2025", monthLabel(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Enero 2026", monthLabel(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
