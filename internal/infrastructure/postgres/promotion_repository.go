package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

// PromotionRepo implementación de PromotionRepository.
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

const promotionSelect = `
	SELECT id::text, name, start_time, end_time, discount, created_at, updated_at
	FROM promotions`

func scanPromotion(row pgx.Row) (*entity.Promotion, error) {
	var p entity.Promotion
	if err := row.Scan(&p.ID, &p.Name, &p.StartTime, &p.EndTime, &p.Discount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste la promoción. Código repetido (sin distinguir mayúsculas) → ErrDuplicate.
func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO promotions (id, name, start_time, end_time, discount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.StartTime, p.EndTime, p.Discount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, promotionSelect+` WHERE id = $1`, id)
}

func (r *PromotionRepo) GetByName(ctx context.Context, name string) (*entity.Promotion, error) {
	return r.getOne(ctx, promotionSelect+` WHERE upper(name) = upper($1)`, name)
}

func (r *PromotionRepo) getOne(ctx context.Context, query, arg string) (*entity.Promotion, error) {
	p, err := scanPromotion(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	_, err := r.q.Exec(ctx, `
		UPDATE promotions SET name = $2, start_time = $3, end_time = $4, discount = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Name, p.StartTime, p.EndTime, p.Discount, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

// List filtra por código y por estado calculado contra f.From (la hora de la consulta).
func (r *PromotionRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Promotion, int, error) {
	var w where
	w.keyword("lower(name)", f.Keyword)
	if f.From != nil {
		switch f.Status {
		case entity.PromotionNotApplied:
			w.add("start_time > ?", *f.From)
		case entity.PromotionActive:
			w.add("start_time <= ? AND end_time >= ?", *f.From, *f.From)
		case entity.PromotionExpired:
			w.add("end_time < ?", *f.From)
		}
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM promotions`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count promotions: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, promotionSelect+w.String()+` ORDER BY start_time DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan promotion: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Delete elimina la promoción; las facturas conservan el porcentaje aplicado.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	return nil
}
