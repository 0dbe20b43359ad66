package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// ActivityLogFilter filtro del registro de actividad. Status en ListFilter se ignora.
type ActivityLogFilter struct {
	EntityType string
	ListFilter
}

// ActivityLogRepository define el puerto de persistencia para la auditoría.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, f ActivityLogFilter) ([]*entity.ActivityLog, int, error)
}
