package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

type memProducts struct {
	items map[string]*entity.Product
}

func newMemProducts(ps ...*entity.Product) *memProducts {
	m := &memProducts{items: map[string]*entity.Product{}}
	for _, p := range ps {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.items[p.ID] = p
	return nil
}
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
	p := m.items[id]
	if p == nil {
		return domain.ErrNotFound
	}
	s := p.Size(size)
	if s == nil {
		return domain.ErrNotFound
	}
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

type memNotes struct {
	mu       sync.Mutex
	notes    map[string]*entity.ImportNote
	statuses map[string]string
	received map[string]int
}

func newMemNotes() *memNotes {
	return &memNotes{notes: map[string]*entity.ImportNote{}, statuses: map[string]string{}, received: map[string]int{}}
}

func (m *memNotes) Create(_ context.Context, n *entity.ImportNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.ID] = n
	m.statuses[n.ID] = n.Status
	return nil
}

// GetByID devuelve una copia con el estado guardado.
func (m *memNotes) GetByID(_ context.Context, id string) (*entity.ImportNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	cp.Status = m.statuses[id]
	return &cp, nil
}
func (m *memNotes) List(context.Context, repository.ListFilter) ([]*entity.ImportNote, int, error) {
	out := make([]*entity.ImportNote, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	return out, len(out), nil
}
func (m *memNotes) Transition(_ context.Context, id, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok || m.statuses[id] != from {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, id)
	}
	m.statuses[id] = to
	return nil
}
func (m *memNotes) SetReceived(_ context.Context, detailID string, received int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received[detailID] = received
	return nil
}

type memSuppliers struct{ items map[string]*entity.Supplier }

func (m *memSuppliers) Create(context.Context, *entity.Supplier) error { return nil }
func (m *memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return m.items[id], nil
}
func (m *memSuppliers) Update(context.Context, *entity.Supplier) error { return nil }
func (m *memSuppliers) List(context.Context, repository.ListFilter) ([]*entity.Supplier, int, error) {
	return nil, 0, nil
}
func (m *memSuppliers) Delete(context.Context, string) error { return nil }

// directTx ejecuta fn sin transacción real; rollback no se simula.
type directTx struct {
	products *memProducts
	notes    *memNotes
}

func (d directTx) Run(_ context.Context, fn func(repository.ProductRepository, repository.ImportNoteRepository) error) error {
	return fn(d.products, d.notes)
}

// lockstepTx retiene n llamadas hasta que todas llegan y las ejecuta de a una.
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

func (l *lockstepTx) Run(ctx context.Context, fn func(repository.ProductRepository, repository.ImportNoteRepository) error) error {
	l.arrived.Done()
	l.arrived.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.directTx.Run(ctx, fn)
}
