package billing

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar facturación con inventario.
// ApplyInTx mueve stock usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type InventoryUseCase interface {
	ApplyInTx(ctx context.Context, productRepo repository.ProductRepository, productID, size string, delta int) error
}

// PromotionLookup resuelve un código de promoción vigente.
type PromotionLookup interface {
	ActiveByCode(ctx context.Context, code string) (*entity.Promotion, error)
}

// InvoicePDFGenerator genera el PDF de una factura con su detalle.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
