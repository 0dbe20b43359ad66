package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerSelect = `
	SELECT c.id::text, c.name, c.phonenumber, c.points, COALESCE(c.loyalty_discount_id::text, ''),
	       c.search_key, c.created_at, c.updated_at,
	       l.name, l.required_points, l.discount, l.status
	FROM customers c
	LEFT JOIN loyalty_discounts l ON l.id = c.loyalty_discount_id`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var tierName, tierStatus *string
	var tierPoints *int
	var tierDiscount decimal.NullDecimal
	err := row.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.Points, &c.LoyaltyDiscountID,
		&c.SearchKey, &c.CreatedAt, &c.UpdatedAt,
		&tierName, &tierPoints, &tierDiscount, &tierStatus)
	if err != nil {
		return nil, err
	}
	if c.LoyaltyDiscountID != "" && tierName != nil {
		c.LoyaltyDiscount = &entity.LoyaltyDiscount{
			ID:       c.LoyaltyDiscountID,
			Name:     *tierName,
			Discount: tierDiscount.Decimal,
			Status:   derefStr(tierStatus),
		}
		if tierPoints != nil {
			c.LoyaltyDiscount.RequiredPoints = *tierPoints
		}
	}
	return &c, nil
}

// Create persiste un nuevo cliente. Teléfono repetido → ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, name, phonenumber, points, loyalty_discount_id, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.PhoneNumber, c.Points, nullIfEmpty(c.LoyaltyDiscountID), c.SearchKey, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, customerSelect+` WHERE c.id = $1`, id)
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.getOne(ctx, customerSelect+` WHERE c.phonenumber = $1`, phone)
}

func (r *CustomerRepo) getOne(ctx context.Context, query, arg string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Update modifica nombre y teléfono. Los puntos solo cambian con AddPoints.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		UPDATE customers SET name = $2, phonenumber = $3, search_key = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.Name, c.PhoneNumber, c.SearchKey, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// AddPoints suma delta al puntaje en la base y devuelve el total resultante.
func (r *CustomerRepo) AddPoints(ctx context.Context, id string, delta int) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		UPDATE customers SET points = points + $2, updated_at = now()
		WHERE id = $1
		RETURNING points`,
		id, delta,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("add customer points: %w", err)
	}
	return total, nil
}

func (r *CustomerRepo) SetLoyaltyTier(ctx context.Context, id, loyaltyID string) error {
	_, err := r.q.Exec(ctx, `UPDATE customers SET loyalty_discount_id = $2 WHERE id = $1`, id, nullIfEmpty(loyaltyID))
	if err != nil {
		return fmt.Errorf("set customer loyalty tier: %w", err)
	}
	return nil
}

func (r *CustomerRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	var w where
	w.keyword("c.search_key", f.Keyword)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers c`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, customerSelect+w.String()+` ORDER BY c.created_at DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Delete elimina el cliente; si tiene facturas retorna ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("el cliente tiene facturas: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
