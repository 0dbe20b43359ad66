package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// PromotionRepository define el puerto de persistencia para Promotion.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	GetByID(ctx context.Context, id string) (*entity.Promotion, error)
	// GetByName busca por código sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	List(ctx context.Context, f ListFilter) ([]*entity.Promotion, int, error)
	Delete(ctx context.Context, id string) error
}
