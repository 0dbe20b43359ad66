package repository

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus detalles.
type InvoiceRepository interface {
	// Create persiste cabecera y detalles (usar dentro de una tx).
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Invoice, int, error)
	// Transition pasa de from a to; si el estado ya no es from devuelve domain.ErrInvalidTransition.
	Transition(ctx context.Context, id, from, to string, pointsAwarded int) error
}
