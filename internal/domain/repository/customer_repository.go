package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// AddPoints suma delta (relativo, no absoluto) y devuelve el puntaje nuevo.
	AddPoints(ctx context.Context, id string, delta int) (int, error)
	// SetLoyaltyTier fija el nivel de fidelidad (loyaltyID vacío = ninguno).
	SetLoyaltyTier(ctx context.Context, id, loyaltyID string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Customer, int, error)
	Delete(ctx context.Context, id string) error
}
