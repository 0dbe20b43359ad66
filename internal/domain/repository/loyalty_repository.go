package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// LoyaltyDiscountRepository define el puerto de persistencia para los niveles de fidelidad.
type LoyaltyDiscountRepository interface {
	Create(ctx context.Context, ld *entity.LoyaltyDiscount) error
	GetByID(ctx context.Context, id string) (*entity.LoyaltyDiscount, error)
	Update(ctx context.Context, ld *entity.LoyaltyDiscount) error
	List(ctx context.Context, f ListFilter) ([]*entity.LoyaltyDiscount, int, error)
	ListActive(ctx context.Context) ([]*entity.LoyaltyDiscount, error)
	Delete(ctx context.Context, id string) error
}

// MonetaryNormRepository registro único con el valor de un punto.
type MonetaryNormRepository interface {
	// Get devuelve nil si aún no se configuró.
	Get(ctx context.Context) (*entity.MonetaryNorm, error)
	Upsert(ctx context.Context, norm *entity.MonetaryNorm) error
}
