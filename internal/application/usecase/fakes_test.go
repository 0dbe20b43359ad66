package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

type memCategories struct {
	items    map[string]*entity.Category
	products map[string]int
}

func newMemCategories() *memCategories {
	return &memCategories{items: map[string]*entity.Category{}, products: map[string]int{}}
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	m.items[c.ID] = c
	return nil
}
func (m *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return m.items[id], nil
}
func (m *memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range m.items {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}
func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	m.items[c.ID] = c
	return nil
}
func (m *memCategories) List(context.Context, repository.ListFilter) ([]*entity.Category, int, error) {
	out := make([]*entity.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, len(out), nil
}
func (m *memCategories) CountProducts(_ context.Context, id string) (int, error) {
	return m.products[id], nil
}
func (m *memCategories) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memSuppliers struct{ items map[string]*entity.Supplier }

func (m *memSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	m.items[s.ID] = s
	return nil
}
func (m *memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return m.items[id], nil
}
func (m *memSuppliers) Update(_ context.Context, s *entity.Supplier) error {
	m.items[s.ID] = s
	return nil
}
func (m *memSuppliers) List(context.Context, repository.ListFilter) ([]*entity.Supplier, int, error) {
	return nil, 0, nil
}
func (m *memSuppliers) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

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
func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	m.items[c.ID] = c
	return nil
}
func (m *memCustomers) AddPoints(_ context.Context, id string, delta int) (int, error) {
	m.items[id].Points += delta
	return m.items[id].Points, nil
}
func (m *memCustomers) SetLoyaltyTier(_ context.Context, id, loyaltyID string) error {
	m.items[id].LoyaltyDiscountID = loyaltyID
	return nil
}
func (m *memCustomers) List(context.Context, repository.ListFilter) ([]*entity.Customer, int, error) {
	out := make([]*entity.Customer, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, len(out), nil
}
func (m *memCustomers) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// memProducts guarda copias para que los cambios pasen siempre por el repositorio.
type memProducts struct {
	items    map[string]*entity.Product
	statuses []string
	listed   repository.ListFilter
}

func newMemProducts() *memProducts { return &memProducts{items: map[string]*entity.Product{}} }

func clone(p *entity.Product) *entity.Product {
	cp := *p
	cp.Sizes = append([]entity.ProductSize(nil), p.Sizes...)
	return &cp
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.items[p.ID] = clone(p)
	return nil
}
func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}
func (m *memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.SKU == sku {
			return clone(p), nil
		}
	}
	return nil, nil
}
func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.items[p.ID] = clone(p)
	return nil
}
func (m *memProducts) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}
func (m *memProducts) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	m.listed = f
	out := make([]*entity.Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, clone(p))
	}
	return out, len(out), nil
}
func (m *memProducts) ListBySupplier(_ context.Context, supplierID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.SupplierID == supplierID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}
func (m *memProducts) AddSize(_ context.Context, id string, s entity.ProductSize) error {
	m.items[id].Sizes = append(m.items[id].Sizes, s)
	return nil
}
func (m *memProducts) DeleteSize(_ context.Context, id, size string) error {
	p := m.items[id]
	kept := p.Sizes[:0]
	for _, s := range p.Sizes {
		if s.Size != size {
			kept = append(kept, s)
		}
	}
	p.Sizes = kept
	return nil
}
func (m *memProducts) UpdateSizePrice(_ context.Context, id, size string, price decimal.Decimal) error {
	m.items[id].Size(size).Price = price
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
	m.statuses = append(m.statuses, status)
	m.items[id].Status = status
	return nil
}
func (m *memProducts) UpdateImage(_ context.Context, id, key string) error {
	m.items[id].ImageKey = key
	return nil
}

// fakeStorage guarda objetos en memoria; URL antepone un host fijo.
type fakeStorage struct {
	objects map[string][]byte
	removed []string
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (s *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	return nil
}
func (s *fakeStorage) URL(_ context.Context, key string) (string, error) {
	return "https://img.local/" + key, nil
}
func (s *fakeStorage) Remove(_ context.Context, key string) error {
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

type memPromotions struct {
	items  map[string]*entity.Promotion
	listed repository.ListFilter
}

func (m *memPromotions) Create(_ context.Context, p *entity.Promotion) error {
	m.items[p.ID] = p
	return nil
}
func (m *memPromotions) GetByID(_ context.Context, id string) (*entity.Promotion, error) {
	return m.items[id], nil
}
func (m *memPromotions) GetByName(_ context.Context, name string) (*entity.Promotion, error) {
	for _, p := range m.items {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}
func (m *memPromotions) Update(_ context.Context, p *entity.Promotion) error {
	m.items[p.ID] = p
	return nil
}
func (m *memPromotions) List(_ context.Context, f repository.ListFilter) ([]*entity.Promotion, int, error) {
	m.listed = f
	return nil, 0, nil
}
func (m *memPromotions) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memUsers struct{ items map[string]*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.items[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.items[id], nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.items[u.ID] = u
	return nil
}
func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.items[id].PasswordHash = hash
	return nil
}
func (m *memUsers) UpdateStatus(_ context.Context, id, status string) error {
	m.items[id].AccountStatus = status
	return nil
}
func (m *memUsers) List(context.Context, repository.ListFilter) ([]*entity.User, int, error) {
	return nil, 0, nil
}
func (m *memUsers) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memEmployees struct{ items map[string]*entity.Employee }

func (m *memEmployees) Create(_ context.Context, e *entity.Employee) error {
	m.items[e.ID] = e
	return nil
}
func (m *memEmployees) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	return m.items[id], nil
}
func (m *memEmployees) Update(_ context.Context, e *entity.Employee) error {
	m.items[e.ID] = e
	return nil
}
func (m *memEmployees) List(context.Context, repository.ListFilter) ([]*entity.Employee, int, error) {
	return nil, 0, nil
}
func (m *memEmployees) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memLoyalty struct{ items map[string]*entity.LoyaltyDiscount }

func (m *memLoyalty) Create(_ context.Context, ld *entity.LoyaltyDiscount) error {
	m.items[ld.ID] = ld
	return nil
}
func (m *memLoyalty) GetByID(_ context.Context, id string) (*entity.LoyaltyDiscount, error) {
	return m.items[id], nil
}
func (m *memLoyalty) Update(_ context.Context, ld *entity.LoyaltyDiscount) error {
	m.items[ld.ID] = ld
	return nil
}
func (m *memLoyalty) List(context.Context, repository.ListFilter) ([]*entity.LoyaltyDiscount, int, error) {
	return nil, 0, nil
}
func (m *memLoyalty) ListActive(context.Context) ([]*entity.LoyaltyDiscount, error) {
	return nil, nil
}
func (m *memLoyalty) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memNorm struct{ norm *entity.MonetaryNorm }

func (m *memNorm) Get(context.Context) (*entity.MonetaryNorm, error) { return m.norm, nil }
func (m *memNorm) Upsert(_ context.Context, n *entity.MonetaryNorm) error {
	m.norm = n
	return nil
}
