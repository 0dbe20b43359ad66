package billing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

type fixture struct {
	uc        *InvoiceUseCase
	products  *memProducts
	customers *memCustomers
	invoices  *memInvoices
}

func newFixture() fixture {
	products := &memProducts{items: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Camisa", SKU: "CAM-1", Status: entity.ProductInStock, Sizes: []entity.ProductSize{
			{Size: "M", Price: decimal.NewFromInt(100), Quantity: 5},
			{Size: "L", Price: decimal.NewFromInt(120), Quantity: 1},
		}},
		"p2": {ID: "p2", Name: "Gorra", Status: entity.ProductDiscontinued, Sizes: []entity.ProductSize{
			{Size: "S", Price: decimal.NewFromInt(30), Quantity: 9},
		}},
	}}
	customers := &memCustomers{items: map[string]*entity.Customer{
		"c1": {ID: "c1", Name: "Lan", PhoneNumber: "0901234567", Points: 120},
	}}
	invoices := &memInvoices{items: map[string]*entity.Invoice{}}
	loyalty := &memLoyalty{tiers: []*entity.LoyaltyDiscount{
		{ID: "silver", RequiredPoints: 100, Discount: decimal.NewFromInt(5), Status: entity.LoyaltyActive},
		{ID: "gold", RequiredPoints: 500, Discount: decimal.NewFromInt(10), Status: entity.LoyaltyActive},
	}}
	norm := fixedNorm{norm: &entity.MonetaryNorm{ID: "n", MoneyPerPoint: decimal.NewFromInt(1)}}
	promos := promoTable{"VERANO": {ID: "pr1", Name: "VERANO", Discount: decimal.NewFromInt(10)}}

	uc := NewInvoiceUseCase(directTx{products, customers, invoices}, stockAdjuster{},
		products, customers, invoices, loyalty, norm, promos, nil, nil)
	return fixture{uc: uc, products: products, customers: customers, invoices: invoices}
}

func TestQuote_PromoYFidelidad(t *testing.T) {
	f := newFixture()
	q, err := f.uc.Quote(context.Background(), dto.PriceQuoteRequest{
		CustomerPhone:   "090 123 4567",
		OrderType:       entity.OrderOnline,
		PromoCode:       "VERANO",
		ShippingAddress: "Calle 1",
		ShippingFee:     decimal.NewFromInt(15),
		Items: []dto.CartItemRequest{
			{ProductID: "p1", Size: "M", Quantity: 1},
			{ProductID: "p1", Size: "m", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, q.Lines, 1, "líneas repetidas se agrupan")
	assert.Equal(t, 2, q.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(200).Equal(q.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(q.PromoAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(q.LoyaltyAmount))
	assert.True(t, decimal.NewFromInt(185).Equal(q.TotalPrice))
	assert.Equal(t, 5, f.products.items["p1"].Size("M").Quantity, "cotizar no toca el stock")
}

func TestCreate_TiendaCompletaYSumaPuntos(t *testing.T) {
	f := newFixture()
	ctx := activity.WithActor(context.Background(), "u-1")

	out, err := f.uc.Create(ctx, dto.CreateInvoiceRequest{
		CustomerPhone: "0901234567",
		OrderType:     entity.OrderShop,
		ShippingFee:   decimal.NewFromInt(99), // ignorado en tienda
		Items:         []dto.CartItemRequest{{ProductID: "p1", Size: "M", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.InvoiceCode, "INV-"))
	assert.Equal(t, entity.StatusCompleted, out.Status)
	assert.Equal(t, "u-1", out.UserID)
	assert.True(t, out.ShippingFee.IsZero())
	// 400 - 5% fidelidad = 380 → 380 puntos
	assert.True(t, decimal.NewFromInt(380).Equal(out.TotalPrice))
	assert.Equal(t, 380, out.PointsAwarded)

	assert.Equal(t, 1, f.products.items["p1"].Size("M").Quantity)
	c := f.customers.items["c1"]
	assert.Equal(t, 500, c.Points)
	assert.Equal(t, "gold", c.LoyaltyDiscountID)
	assert.Equal(t, entity.StatusCompleted, f.invoices.items[out.ID].Status)
}

func TestCreate_OnlinePendienteYClienteNuevo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	out, err := f.uc.Create(ctx, dto.CreateInvoiceRequest{
		CustomerPhone:   "0911111111",
		CustomerName:    "Minh",
		OrderType:       entity.OrderOnline,
		ShippingAddress: "Calle 2",
		ShippingFee:     decimal.NewFromInt(10),
		Items:           []dto.CartItemRequest{{ProductID: "p1", Size: "L", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, out.Status)
	assert.Equal(t, 0, out.PointsAwarded)
	assert.True(t, decimal.NewFromInt(130).Equal(out.TotalPrice))
	assert.Len(t, f.customers.items, 2)

	done, err := f.uc.Complete(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, done.PointsAwarded, "los puntos excluyen el envío")
	assert.Equal(t, 120, f.customers.items[out.CustomerID].Points)
	assert.Equal(t, "silver", f.customers.items[out.CustomerID].LoyaltyDiscountID)

	_, err = f.uc.Complete(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_DevuelveStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	out, err := f.uc.Create(ctx, dto.CreateInvoiceRequest{
		CustomerPhone: "0901234567", OrderType: entity.OrderOnline, ShippingAddress: "x",
		Items: []dto.CartItemRequest{{ProductID: "p1", Size: "M", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.products.items["p1"].Size("M").Quantity)

	_, err = f.uc.Cancel(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.products.items["p1"].Size("M").Quantity)
	assert.Equal(t, entity.StatusCanceled, f.invoices.items[out.ID].Status)

	_, err = f.uc.Cancel(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreate_Errores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	base := func(mod func(*dto.CreateInvoiceRequest)) dto.CreateInvoiceRequest {
		in := dto.CreateInvoiceRequest{
			CustomerPhone: "0901234567", OrderType: entity.OrderShop,
			Items: []dto.CartItemRequest{{ProductID: "p1", Size: "M", Quantity: 1}},
		}
		mod(&in)
		return in
	}

	cases := []struct {
		name string
		in   dto.CreateInvoiceRequest
		want error
	}{
		{"carrito vacío", base(func(in *dto.CreateInvoiceRequest) { in.Items = nil }), domain.ErrInvalidInput},
		{"online sin dirección", base(func(in *dto.CreateInvoiceRequest) { in.OrderType = entity.OrderOnline }), domain.ErrInvalidInput},
		{"tipo desconocido", base(func(in *dto.CreateInvoiceRequest) { in.OrderType = "delivery" }), domain.ErrInvalidInput},
		{"sin stock", base(func(in *dto.CreateInvoiceRequest) { in.Items[0].Quantity = 6 }), domain.ErrInsufficientStock},
		{"descontinuado", base(func(in *dto.CreateInvoiceRequest) { in.Items[0] = dto.CartItemRequest{ProductID: "p2", Size: "S", Quantity: 1} }), domain.ErrInvalidInput},
		{"promo desconocida", base(func(in *dto.CreateInvoiceRequest) { in.PromoCode = "NADA" }), domain.ErrNotFound},
		{"cliente nuevo sin nombre", base(func(in *dto.CreateInvoiceRequest) { in.CustomerPhone = "0999999999" }), domain.ErrInvalidInput},
		{"sin teléfono", base(func(in *dto.CreateInvoiceRequest) { in.CustomerPhone = "" }), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 5, f.products.items["p1"].Size("M").Quantity)
	assert.Empty(t, f.invoices.items)
}

func (f fixture) pendingOnline(t *testing.T, qty int) string {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerPhone: "0901234567", OrderType: entity.OrderOnline, ShippingAddress: "x",
		Items: []dto.CartItemRequest{{ProductID: "p1", Size: "M", Quantity: qty}},
	})
	require.NoError(t, err)
	return out.ID
}

// concurrently ejecuta fn dos veces a la vez y devuelve ambos errores.
func concurrently(fn func() error) []error {
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn()
		}(i)
	}
	wg.Wait()
	return errs
}

func countInvalid(errs []error) (ok, invalid int) {
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidTransition):
			invalid++
		}
	}
	return ok, invalid
}

func TestCancel_SimultaneoDevuelveStockUnaVez(t *testing.T) {
	f := newFixture()
	id := f.pendingOnline(t, 2)
	require.Equal(t, 3, f.products.items["p1"].Size("M").Quantity)

	f.uc.txRunner = newLockstepTx(directTx{f.products, f.customers, f.invoices}, 2)
	errs := concurrently(func() error {
		_, err := f.uc.Cancel(context.Background(), id)
		return err
	})

	ok, invalid := countInvalid(errs)
	assert.Equal(t, 1, ok, "errores: %v", errs)
	assert.Equal(t, 1, invalid, "errores: %v", errs)
	assert.Equal(t, 5, f.products.items["p1"].Size("M").Quantity)
	assert.Equal(t, entity.StatusCanceled, f.invoices.items[id].Status)
}

func TestComplete_SimultaneoOtorgaPuntosUnaVez(t *testing.T) {
	f := newFixture()
	id := f.pendingOnline(t, 1)

	f.uc.txRunner = newLockstepTx(directTx{f.products, f.customers, f.invoices}, 2)
	errs := concurrently(func() error {
		_, err := f.uc.Complete(context.Background(), id)
		return err
	})

	ok, invalid := countInvalid(errs)
	assert.Equal(t, 1, ok, "errores: %v", errs)
	assert.Equal(t, 1, invalid, "errores: %v", errs)
	// 120 iniciales + 95 (100 - 5% de fidelidad)
	assert.Equal(t, 215, f.customers.items["c1"].Points)
	assert.Equal(t, 95, f.invoices.items[id].PointsAwarded)
}

func TestAwardPoints_SumaSobreElValorGuardado(t *testing.T) {
	f := newFixture()
	stale := &entity.Customer{ID: "c1", Points: 0} // lectura anterior a otra venta
	f.customers.items["c1"].Points = 450

	err := f.uc.awardPoints(context.Background(), f.customers, stale, 60)
	require.NoError(t, err)
	assert.Equal(t, 510, f.customers.items["c1"].Points)
	assert.Equal(t, "gold", f.customers.items["c1"].LoyaltyDiscountID)
	assert.Equal(t, 510, stale.Points)
}
