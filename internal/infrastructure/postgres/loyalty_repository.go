package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var (
	_ repository.LoyaltyDiscountRepository = (*LoyaltyRepo)(nil)
	_ repository.MonetaryNormRepository    = (*NormRepo)(nil)
)

// LoyaltyRepo niveles de fidelidad.
type LoyaltyRepo struct {
	q Querier
}

func NewLoyaltyRepository(q Querier) *LoyaltyRepo {
	return &LoyaltyRepo{q: q}
}

const loyaltySelect = `
	SELECT id::text, name, required_points, discount, status, created_at, updated_at
	FROM loyalty_discounts`

func scanLoyalty(row pgx.Row) (*entity.LoyaltyDiscount, error) {
	var l entity.LoyaltyDiscount
	if err := row.Scan(&l.ID, &l.Name, &l.RequiredPoints, &l.Discount, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LoyaltyRepo) Create(ctx context.Context, l *entity.LoyaltyDiscount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO loyalty_discounts (id, name, required_points, discount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.Name, l.RequiredPoints, l.Discount, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert loyalty discount: %w", err)
	}
	return nil
}

func (r *LoyaltyRepo) GetByID(ctx context.Context, id string) (*entity.LoyaltyDiscount, error) {
	if !isUUID(id) {
		return nil, nil
	}
	l, err := scanLoyalty(r.q.QueryRow(ctx, loyaltySelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loyalty discount: %w", err)
	}
	return l, nil
}

func (r *LoyaltyRepo) Update(ctx context.Context, l *entity.LoyaltyDiscount) error {
	_, err := r.q.Exec(ctx, `
		UPDATE loyalty_discounts SET name = $2, required_points = $3, discount = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		l.ID, l.Name, l.RequiredPoints, l.Discount, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update loyalty discount: %w", err)
	}
	return nil
}

func (r *LoyaltyRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.LoyaltyDiscount, int, error) {
	var w where
	w.keyword("lower(name)", f.Keyword)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM loyalty_discounts`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loyalty discounts: %w", err)
	}
	tail, args := w.page(f)
	return r.query(ctx, total, loyaltySelect+w.String()+` ORDER BY required_points`+tail, args...)
}

// ListActive niveles activos de menor a mayor puntaje requerido.
func (r *LoyaltyRepo) ListActive(ctx context.Context) ([]*entity.LoyaltyDiscount, error) {
	list, _, err := r.query(ctx, 0, loyaltySelect+` WHERE status = $1 ORDER BY required_points`, entity.LoyaltyActive)
	return list, err
}

func (r *LoyaltyRepo) query(ctx context.Context, total int, query string, args ...interface{}) ([]*entity.LoyaltyDiscount, int, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loyalty discounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.LoyaltyDiscount
	for rows.Next() {
		l, err := scanLoyalty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan loyalty discount: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

// Delete elimina el nivel; los clientes que lo tenían quedan sin nivel (ON DELETE SET NULL).
func (r *LoyaltyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM loyalty_discounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete loyalty discount: %w", err)
	}
	return nil
}

// NormRepo registro único del valor monetario de un punto.
type NormRepo struct {
	q Querier
}

func NewMonetaryNormRepository(q Querier) *NormRepo {
	return &NormRepo{q: q}
}

func (r *NormRepo) Get(ctx context.Context) (*entity.MonetaryNorm, error) {
	var n entity.MonetaryNorm
	err := r.q.QueryRow(ctx, `
		SELECT id::text, money_per_point, updated_at FROM monetary_norms
		ORDER BY updated_at DESC LIMIT 1`).Scan(&n.ID, &n.MoneyPerPoint, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get monetary norm: %w", err)
	}
	return &n, nil
}

func (r *NormRepo) Upsert(ctx context.Context, n *entity.MonetaryNorm) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO monetary_norms (id, money_per_point, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET money_per_point = EXCLUDED.money_per_point, updated_at = EXCLUDED.updated_at`,
		n.ID, n.MoneyPerPoint, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert monetary norm: %w", err)
	}
	return nil
}
