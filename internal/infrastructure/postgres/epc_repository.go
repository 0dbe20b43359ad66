package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

var _ repository.EPCRepository = (*EPCRepo)(nil)

// EPCRepo registro de etiquetas RFID (usable con pool o tx).
type EPCRepo struct {
	q Querier
}

// NewEPCRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEPCRepository(q Querier) *EPCRepo {
	return &EPCRepo{q: q}
}

const epcSelect = `
	SELECT e.id::text, e.epc, COALESCE(e.product_id::text, ''), e.assigned_at, e.created_at,
	       COALESCE(p.name, ''), COALESCE(p.sku, ''), COALESCE(c.name, '')
	FROM epcs e
	LEFT JOIN products p ON p.id = e.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanEPC(row pgx.Row) (*entity.EPC, error) {
	var e entity.EPC
	err := row.Scan(&e.ID, &e.EPC, &e.ProductID, &e.AssignedAt, &e.CreatedAt,
		&e.ProductName, &e.ProductSKU, &e.CategoryName)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create registra una etiqueta. EPC repetido → ErrDuplicate.
func (r *EPCRepo) Create(ctx context.Context, e *entity.EPC) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO epcs (id, epc, product_id, assigned_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.EPC, nullIfEmpty(e.ProductID), e.AssignedAt, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert epc: %w", err)
	}
	return nil
}

// CreateBatch inserta todas las etiquetas en una sola sentencia; sin asignar.
func (r *EPCRepo) CreateBatch(ctx context.Context, epcs []*entity.EPC) error {
	if len(epcs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(epcs))
	codes := make([]string, 0, len(epcs))
	created := make([]time.Time, 0, len(epcs))
	for _, e := range epcs {
		ids = append(ids, e.ID)
		codes = append(codes, e.EPC)
		created = append(created, e.CreatedAt)
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO epcs (id, epc, created_at)
		SELECT t.id, t.epc, t.created_at
		FROM unnest($1::text[]::uuid[], $2::text[], $3::timestamptz[]) AS t(id, epc, created_at)`,
		ids, codes, created,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert epc batch: %w", err)
	}
	return nil
}

func (r *EPCRepo) GetByEPC(ctx context.Context, epc string) (*entity.EPC, error) {
	e, err := scanEPC(r.q.QueryRow(ctx, epcSelect+` WHERE e.epc = $1`, epc))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get epc: %w", err)
	}
	return e, nil
}

func (r *EPCRepo) Existing(ctx context.Context, epcs []string) ([]string, error) {
	if len(epcs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT epc FROM epcs WHERE epc = ANY($1::text[])`, epcs)
	if err != nil {
		return nil, fmt.Errorf("existing epcs: %w", err)
	}
	defer rows.Close()
	var found []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan epc: %w", err)
		}
		found = append(found, s)
	}
	return found, rows.Err()
}

// Lookup resuelve un lote de lecturas; los EPC no registrados no aparecen en el mapa.
func (r *EPCRepo) Lookup(ctx context.Context, epcs []string) (map[string]*entity.EPC, error) {
	out := make(map[string]*entity.EPC, len(epcs))
	if len(epcs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, epcSelect+` WHERE e.epc = ANY($1::text[])`, epcs)
	if err != nil {
		return nil, fmt.Errorf("lookup epcs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEPC(rows)
		if err != nil {
			return nil, fmt.Errorf("scan epc: %w", err)
		}
		out[e.EPC] = e
	}
	return out, rows.Err()
}

// List filtra por EPC o nombre de producto y por estado assigned/unassigned.
func (r *EPCRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.EPC, int, error) {
	var w where
	if p := textsearch.Pattern(f.Keyword); p != "" {
		w.add("(lower(e.epc) LIKE ? OR p.search_key LIKE ?)", p, p)
	}
	switch f.Status {
	case "assigned":
		w.add("e.product_id IS NOT NULL")
	case "unassigned":
		w.add("e.product_id IS NULL")
	}
	var total int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM epcs e LEFT JOIN products p ON p.id = e.product_id`+w.String(), w.args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count epcs: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, epcSelect+w.String()+` ORDER BY e.created_at DESC, e.epc`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list epcs: %w", err)
	}
	defer rows.Close()
	var list []*entity.EPC
	for rows.Next() {
		e, err := scanEPC(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan epc: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func (r *EPCRepo) Assign(ctx context.Context, epc, productID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE epcs SET product_id = $2, assigned_at = $3 WHERE epc = $1`, epc, productID, at)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("assign epc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EPCRepo) Unassign(ctx context.Context, epc string) error {
	tag, err := r.q.Exec(ctx, `UPDATE epcs SET product_id = NULL, assigned_at = NULL WHERE epc = $1`, epc)
	if err != nil {
		return fmt.Errorf("unassign epc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EPCRepo) Delete(ctx context.Context, epc string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM epcs WHERE epc = $1`, epc)
	if err != nil {
		return fmt.Errorf("delete epc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
