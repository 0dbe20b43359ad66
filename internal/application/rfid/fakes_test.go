package rfid

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// memEPCs registro de etiquetas en memoria; products aporta los nombres del JOIN.
type memEPCs struct {
	tags      map[string]*entity.EPC
	products  map[string]*entity.Product
	lookupErr error
	lookups   int
}

func newMemEPCs(products ...*entity.Product) *memEPCs {
	m := &memEPCs{tags: map[string]*entity.EPC{}, products: map[string]*entity.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memEPCs) withJoin(e *entity.EPC) *entity.EPC {
	cp := *e
	if p, ok := m.products[cp.ProductID]; ok {
		cp.ProductName, cp.ProductSKU, cp.CategoryName = p.Name, p.SKU, p.CategoryName
	}
	return &cp
}

func (m *memEPCs) Create(_ context.Context, e *entity.EPC) error {
	if _, ok := m.tags[e.EPC]; ok {
		return domain.ErrDuplicate
	}
	m.tags[e.EPC] = e
	return nil
}
func (m *memEPCs) CreateBatch(ctx context.Context, es []*entity.EPC) error {
	for _, e := range es {
		if err := m.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
func (m *memEPCs) GetByEPC(_ context.Context, code string) (*entity.EPC, error) {
	e, ok := m.tags[code]
	if !ok {
		return nil, nil
	}
	return m.withJoin(e), nil
}
func (m *memEPCs) Existing(_ context.Context, codes []string) ([]string, error) {
	var out []string
	for _, c := range codes {
		if _, ok := m.tags[c]; ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}
func (m *memEPCs) Lookup(_ context.Context, codes []string) (map[string]*entity.EPC, error) {
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	out := map[string]*entity.EPC{}
	for _, c := range codes {
		if e, ok := m.tags[c]; ok {
			out[c] = m.withJoin(e)
		}
	}
	return out, nil
}
func (m *memEPCs) List(context.Context, repository.ListFilter) ([]*entity.EPC, int, error) {
	return nil, 0, nil
}
func (m *memEPCs) Assign(_ context.Context, code, productID string, at time.Time) error {
	e := m.tags[code]
	e.ProductID = productID
	e.AssignedAt = &at
	return nil
}
func (m *memEPCs) Unassign(_ context.Context, code string) error {
	m.tags[code].ProductID = ""
	m.tags[code].AssignedAt = nil
	return nil
}
func (m *memEPCs) Delete(_ context.Context, code string) error {
	delete(m.tags, code)
	return nil
}

func (m *memEPCs) RunEPC(_ context.Context, fn func(repository.EPCRepository) error) error {
	return fn(m)
}

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
func (m *memProducts) AdjustSizeQuantity(context.Context, string, string, int) error { return nil }
func (m *memProducts) UpdateStatus(context.Context, string, string) error            { return nil }
func (m *memProducts) UpdateImage(context.Context, string, string) error             { return nil }
