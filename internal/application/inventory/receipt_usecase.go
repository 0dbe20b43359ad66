package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// Tipos de comprobante.
const (
	ReceiptImport = "import"
	ReceiptExport = "export"
)

// ReceiptUseCase arma el comprobante PDF de un movimiento (importación/exportación).
type ReceiptUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	generator   ReceiptPDFGenerator
	now         func() time.Time
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{productRepo: productRepo, userRepo: userRepo, generator: generator, now: time.Now}
}

// Build valida el carrito y devuelve el PDF y su nombre de archivo (TRX-<unix ms>.pdf).
// Si una línea no trae nombre se toma el del producto.
func (uc *ReceiptUseCase) Build(ctx context.Context, in dto.TransactionReceiptRequest) ([]byte, string, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind != ReceiptImport && kind != ReceiptExport {
		return nil, "", domain.Invalid("type debe ser import o export")
	}
	if len(in.Items) == 0 {
		return nil, "", domain.Invalid("el carrito está vacío")
	}
	now := uc.now()
	r := &Receipt{
		Code:     fmt.Sprintf("TRX-%d", now.UnixMilli()),
		Type:     kind,
		IssuedAt: now,
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, "", domain.Invalid(fmt.Sprintf("línea %d: quantity debe ser mayor que 0", i+1))
		}
		name := strings.TrimSpace(it.Name)
		if name == "" && it.ProductID != "" {
			p, err := uc.productRepo.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, "", err
			}
			if p != nil {
				name = p.Name
			}
		}
		if name == "" {
			return nil, "", domain.Invalid(fmt.Sprintf("línea %d: producto sin nombre", i+1))
		}
		r.Items = append(r.Items, ReceiptItem{ProductID: it.ProductID, Name: name, Quantity: it.Quantity})
	}
	if uid := activity.Actor(ctx); uid != "" {
		if u, err := uc.userRepo.GetByID(ctx, uid); err == nil && u != nil {
			r.IssuedBy = u.FullName()
		}
	}
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: %w", err)
	}
	return pdf, r.Code + ".pdf", nil
}
