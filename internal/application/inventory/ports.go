package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el stock y el estado de la nota cambien juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		noteRepo repository.ImportNoteRepository,
	) error) error
}

// Receipt comprobante de un movimiento de importación o exportación.
type Receipt struct {
	Code     string
	Type     string // import | export
	IssuedAt time.Time
	IssuedBy string
	Items    []ReceiptItem
}

// ReceiptItem línea del comprobante.
type ReceiptItem struct {
	ProductID string
	Name      string
	Quantity  int
}

// ReceiptPDFGenerator genera el PDF del comprobante.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r *Receipt) ([]byte, error)
}
