package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

type memProducts struct{ items map[string]*entity.Product }

func (m *memProducts) Create(context.Context, *entity.Product) error { return nil }
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m.items[id], nil
}
func (m *memProducts) GetBySKU(context.Context, string) (*entity.Product, error) { return nil, nil }
func (m *memProducts) Update(context.Context, *entity.Product) error             { return nil }
func (m *memProducts) Delete(context.Context, string) error                      { return nil }
func (m *memProducts) List(context.Context, repository.ListFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}
func (m *memProducts) ListBySupplier(context.Context, string) ([]*entity.Product, error) {
	return nil, nil
}
func (m *memProducts) AddSize(context.Context, string, entity.ProductSize) error { return nil }
func (m *memProducts) DeleteSize(context.Context, string, string) error          { return nil }
func (m *memProducts) UpdateSizePrice(context.Context, string, string, decimal.Decimal) error {
	return nil
}
func (m *memProducts) AdjustSizeQuantity(_ context.Context, id, size string, delta int) error {
	s := m.items[id].Size(size)
	if s.Quantity+delta < 0 {
		return domain.ErrInsufficientStock
	}
	s.Quantity += delta
	return nil
}
func (m *memProducts) UpdateStatus(_ context.Context, id, status string) error {
	m.items[id].Status = status
	return nil
}
func (m *memProducts) UpdateImage(context.Context, string, string) error { return nil }

type memCustomers struct{ items map[string]*entity.Customer }

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	m.items[c.ID] = c
	return nil
}
func (m *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return m.items[id], nil
}
func (m *memCustomers) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	for _, c := range m.items {
		if c.PhoneNumber == phone {
			return c, nil
		}
	}
	return nil, nil
}
func (m *memCustomers) Update(context.Context, *entity.Customer) error { return nil }
func (m *memCustomers) AddPoints(_ context.Context, id string, delta int) (int, error) {
	c, ok := m.items[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	c.Points += delta
	return c.Points, nil
}
func (m *memCustomers) SetLoyaltyTier(_ context.Context, id, loyaltyID string) error {
	m.items[id].LoyaltyDiscountID = loyaltyID
	return nil
}
func (m *memCustomers) List(context.Context, repository.ListFilter) ([]*entity.Customer, int, error) {
	return nil, 0, nil
}
func (m *memCustomers) Delete(context.Context, string) error { return nil }

type memInvoices struct {
	mu    sync.Mutex
	items map[string]*entity.Invoice
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.items[inv.ID] = &cp
	return nil
}
func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}
func (m *memInvoices) List(context.Context, repository.ListFilter) ([]*entity.Invoice, int, error) {
	return nil, 0, nil
}
func (m *memInvoices) Transition(_ context.Context, id, from, to string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.items[id]
	if !ok || inv.Status != from {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, id)
	}
	inv.Status = to
	inv.PointsAwarded = points
	return nil
}

type memLoyalty struct{ tiers []*entity.LoyaltyDiscount }

func (m *memLoyalty) Create(context.Context, *entity.LoyaltyDiscount) error { return nil }
func (m *memLoyalty) GetByID(context.Context, string) (*entity.LoyaltyDiscount, error) {
	return nil, nil
}
func (m *memLoyalty) Update(context.Context, *entity.LoyaltyDiscount) error { return nil }
func (m *memLoyalty) List(context.Context, repository.ListFilter) ([]*entity.LoyaltyDiscount, int, error) {
	return m.tiers, len(m.tiers), nil
}
func (m *memLoyalty) ListActive(context.Context) ([]*entity.LoyaltyDiscount, error) {
	return m.tiers, nil
}
func (m *memLoyalty) Delete(context.Context, string) error { return nil }

type fixedNorm struct{ norm *entity.MonetaryNorm }

func (f fixedNorm) Get(context.Context) (*entity.MonetaryNorm, error)  { return f.norm, nil }
func (f fixedNorm) Upsert(context.Context, *entity.MonetaryNorm) error { return nil }

type promoTable map[string]*entity.Promotion

func (p promoTable) ActiveByCode(_ context.Context, code string) (*entity.Promotion, error) {
	promo, ok := p[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return promo, nil
}

// directTx pasa los repos en memoria sin transacción real.
type directTx struct {
	products  *memProducts
	customers *memCustomers
	invoices  *memInvoices
}

func (d directTx) RunBilling(_ context.Context, fn func(repository.ProductRepository, repository.CustomerRepository, repository.InvoiceRepository) error) error {
	return fn(d.products, d.customers, d.invoices)
}

// lockstepTx retiene cada llamada hasta que lleguen n y luego las ejecuta de a una,
// como haría el bloqueo de fila en la base.
type lockstepTx struct {
	directTx
	arrived sync.WaitGroup
	mu      sync.Mutex
}

func newLockstepTx(d directTx, n int) *lockstepTx {
	l := &lockstepTx{directTx: d}
	l.arrived.Add(n)
	return l
}

func (l *lockstepTx) RunBilling(ctx context.Context, fn func(repository.ProductRepository, repository.CustomerRepository, repository.InvoiceRepository) error) error {
	l.arrived.Done()
	l.arrived.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.directTx.RunBilling(ctx, fn)
}

// stockAdjuster mueve stock sin recalcular estado.
type stockAdjuster struct{}

func (stockAdjuster) ApplyInTx(ctx context.Context, repo repository.ProductRepository, productID, size string, delta int) error {
	return repo.AdjustSizeQuantity(ctx, productID, size, delta)
}
