package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// EPCRepository define el puerto de persistencia para etiquetas RFID.
type EPCRepository interface {
	Create(ctx context.Context, epc *entity.EPC) error
	// CreateBatch inserta todas o ninguna (usar dentro de una tx).
	CreateBatch(ctx context.Context, epcs []*entity.EPC) error
	GetByEPC(ctx context.Context, epc string) (*entity.EPC, error)
	// Existing devuelve cuáles de los EPC dados ya están registrados.
	Existing(ctx context.Context, epcs []string) ([]string, error)
	// Lookup devuelve las etiquetas registradas (con datos de producto) indexadas por EPC.
	Lookup(ctx context.Context, epcs []string) (map[string]*entity.EPC, error)
	List(ctx context.Context, f ListFilter) ([]*entity.EPC, int, error)
	Assign(ctx context.Context, epc, productID string, at time.Time) error
	Unassign(ctx context.Context, epc string) error
	Delete(ctx context.Context, epc string) error
}
