package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para Employee.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	List(ctx context.Context, f ListFilter) ([]*entity.Employee, int, error)
	Delete(ctx context.Context, id string) error
}
