package inventory

import (
	"context"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

// StockService mueve existencias por talla y recalcula el estado del producto.
// Siempre opera con los repositorios de la transacción del caller.
type StockService struct{}

// NewStockService construye el servicio.
func NewStockService() *StockService { return &StockService{} }

// ApplyInTx suma delta (negativo en ventas) a la talla y sincroniza el estado.
// Retorna domain.ErrInsufficientStock si la existencia quedaría negativa; el caller debe hacer rollback.
func (s *StockService) ApplyInTx(ctx context.Context, productRepo repository.ProductRepository, productID, size string, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := productRepo.AdjustSizeQuantity(ctx, productID, size, delta); err != nil {
		return err
	}
	p, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if next := p.StatusAfterStockChange(); next != p.Status {
		return productRepo.UpdateStatus(ctx, productID, next)
	}
	return nil
}
