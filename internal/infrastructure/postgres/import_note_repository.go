package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

var _ repository.ImportNoteRepository = (*ImportNoteRepo)(nil)

// ImportNoteRepo implementación de ImportNoteRepository (usable con pool o tx).
type ImportNoteRepo struct {
	q Querier
}

// NewImportNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportNoteRepository(q Querier) *ImportNoteRepo {
	return &ImportNoteRepo{q: q}
}

const importNoteSelect = `
	SELECT n.id::text, n.note_code, n.supplier_id::text, COALESCE(n.created_by::text, ''), n.total_amount,
	       n.status, n.created_at, n.updated_at,
	       s.name, COALESCE(trim(u.first_name || ' ' || u.last_name), '')
	FROM import_notes n
	JOIN suppliers s ON s.id = n.supplier_id
	LEFT JOIN users u ON u.id = n.created_by`

func scanImportNote(row pgx.Row) (*entity.ImportNote, error) {
	var n entity.ImportNote
	err := row.Scan(&n.ID, &n.NoteCode, &n.SupplierID, &n.CreatedBy, &n.TotalAmount,
		&n.Status, &n.CreatedAt, &n.UpdatedAt, &n.SupplierName, &n.CreatedByName)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create persiste la nota y sus líneas en una sola sentencia.
func (r *ImportNoteRepo) Create(ctx context.Context, n *entity.ImportNote) error {
	ids := make([]string, 0, len(n.Details))
	products := make([]string, 0, len(n.Details))
	sizes := make([]string, 0, len(n.Details))
	qtys := make([]int32, 0, len(n.Details))
	prices := make([]string, 0, len(n.Details))
	for _, d := range n.Details {
		ids = append(ids, d.ID)
		products = append(products, d.ProductID)
		sizes = append(sizes, d.Size)
		qtys = append(qtys, int32(d.Quantity))
		prices = append(prices, d.Price.String())
	}
	_, err := r.q.Exec(ctx, `
		WITH n AS (
			INSERT INTO import_notes (id, note_code, supplier_id, created_by, total_amount, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		)
		INSERT INTO import_note_details (id, import_note_id, product_id, size, quantity, price)
		SELECT d.id, n.id, d.product_id, d.size, d.quantity, d.price
		FROM n, unnest($9::text[]::uuid[], $10::text[]::uuid[], $11::text[], $12::int[], $13::numeric[])
		     AS d(id, product_id, size, quantity, price)`,
		n.ID, n.NoteCode, n.SupplierID, nullIfEmpty(n.CreatedBy), n.TotalAmount, n.Status, n.CreatedAt, n.UpdatedAt,
		ids, products, sizes, qtys, prices,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert import note: %w", err)
	}
	return nil
}

// GetByID devuelve la nota con sus líneas. nil si no existe.
func (r *ImportNoteRepo) GetByID(ctx context.Context, id string) (*entity.ImportNote, error) {
	if !isUUID(id) {
		return nil, nil
	}
	n, err := scanImportNote(r.q.QueryRow(ctx, importNoteSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get import note: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT d.id::text, d.import_note_id::text, d.product_id::text, d.size, d.quantity, d.price,
		       d.received_quantity, p.name, p.sku
		FROM import_note_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.import_note_id = $1
		ORDER BY p.name, d.size`, id)
	if err != nil {
		return nil, fmt.Errorf("get import note details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.ImportNoteDetail
		err := rows.Scan(&d.ID, &d.ImportNoteID, &d.ProductID, &d.Size, &d.Quantity, &d.Price,
			&d.ReceivedQuantity, &d.ProductName, &d.ProductSKU)
		if err != nil {
			return nil, fmt.Errorf("scan import note detail: %w", err)
		}
		n.Details = append(n.Details, d)
	}
	return n, rows.Err()
}

// List lista cabeceras filtrando por código o proveedor, estado, proveedor y fechas.
func (r *ImportNoteRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ImportNote, int, error) {
	var w where
	if p := textsearch.Pattern(f.Keyword); p != "" {
		w.add("(lower(n.note_code) LIKE ? OR s.search_key LIKE ?)", p, p)
	}
	if f.Status != "" {
		w.add("n.status = ?", f.Status)
	}
	w.uuid("n.supplier_id", f.SupplierID)
	w.dates("n.created_at", f)

	var total int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM import_notes n JOIN suppliers s ON s.id = n.supplier_id`+w.String(), w.args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count import notes: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, importNoteSelect+w.String()+` ORDER BY n.created_at DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list import notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ImportNote
	for rows.Next() {
		n, err := scanImportNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan import note: %w", err)
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// Transition cambia el estado solo si la nota sigue en from.
func (r *ImportNoteRepo) Transition(ctx context.Context, id, from, to string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE import_notes SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("update import note status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la nota ya no está %s", domain.ErrInvalidTransition, from)
	}
	return nil
}

func (r *ImportNoteRepo) SetReceived(ctx context.Context, detailID string, received int) error {
	_, err := r.q.Exec(ctx, `UPDATE import_note_details SET received_quantity = $2 WHERE id = $1`, detailID, received)
	if err != nil {
		return fmt.Errorf("set received quantity: %w", err)
	}
	return nil
}
