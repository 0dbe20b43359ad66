// Package rfid casos de uso de etiquetas RFID: registro de EPC, sesión de lectura
// en vivo, conciliación contra documentos y control del lector.
package rfid

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// EPCTxRunner ejecuta fn en una transacción con el repositorio de etiquetas.
type EPCTxRunner interface {
	RunEPC(ctx context.Context, fn func(epcRepo repository.EPCRepository) error) error
}

// TagLookup consulta el registro de etiquetas (con producto y categoría).
type TagLookup interface {
	Lookup(ctx context.Context, epcs []string) (map[string]*entity.EPC, error)
}

// ReaderGateway cliente del gateway HTTP que controla el lector físico.
// Las fallas de red o del gateway se devuelven envueltas en domain.ErrReaderUnavailable.
type ReaderGateway interface {
	Connect(ctx context.Context, comPort string, baudRate int) error
	Disconnect(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (entity.ReaderStatus, error)
	GetBaseband(ctx context.Context) (entity.Baseband, error)
	SetBaseband(ctx context.Context, b entity.Baseband) error
	GetFrequencyRange(ctx context.Context) (entity.FrequencyRange, error)
	SetFrequencyRange(ctx context.Context, index int) error
	GetAntennaPower(ctx context.Context) ([]entity.AntennaPower, error)
	SetAntennaPower(ctx context.Context, powers []entity.AntennaPower) error
}
