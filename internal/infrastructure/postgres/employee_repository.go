package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación de EmployeeRepository.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeSelect = `
	SELECT id::text, name, email, address, phonenumber, entry_date, basic_salary, position, status,
	       search_key, created_at, updated_at
	FROM employees`

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Address, &e.PhoneNumber, &e.EntryDate, &e.BasicSalary,
		&e.Position, &e.Status, &e.SearchKey, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO employees (id, name, email, address, phonenumber, entry_date, basic_salary, position, status, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Name, e.Email, e.Address, e.PhoneNumber, e.EntryDate, e.BasicSalary, e.Position, e.Status,
		e.SearchKey, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	if !isUUID(id) {
		return nil, nil
	}
	e, err := scanEmployee(r.q.QueryRow(ctx, employeeSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		UPDATE employees
		SET name = $2, email = $3, address = $4, phonenumber = $5, entry_date = $6, basic_salary = $7,
		    position = $8, status = $9, search_key = $10, updated_at = $11
		WHERE id = $1`,
		e.ID, e.Name, e.Email, e.Address, e.PhoneNumber, e.EntryDate, e.BasicSalary, e.Position, e.Status,
		e.SearchKey, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// List filtra por texto y por estado (working/quit).
func (r *EmployeeRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Employee, int, error) {
	var w where
	w.keyword("search_key", f.Keyword)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	tail, args := w.page(f)
	rows, err := r.q.Query(ctx, employeeSelect+w.String()+` ORDER BY name`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, total, rows.Err()
}

func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}
