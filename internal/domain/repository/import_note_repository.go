package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// ImportNoteRepository define el puerto de persistencia para notas de importación.
type ImportNoteRepository interface {
	Create(ctx context.Context, note *entity.ImportNote) error
	GetByID(ctx context.Context, id string) (*entity.ImportNote, error)
	List(ctx context.Context, f ListFilter) ([]*entity.ImportNote, int, error)
	// Transition pasa de from a to; si el estado ya no es from devuelve domain.ErrInvalidTransition.
	Transition(ctx context.Context, id, from, to string) error
	SetReceived(ctx context.Context, detailID string, received int) error
}
