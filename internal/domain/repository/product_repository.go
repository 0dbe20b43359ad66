package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y sus tallas.
type ProductRepository interface {
	// Create persiste el producto con sus tallas iniciales.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Product, int, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Product, error)

	AddSize(ctx context.Context, productID string, size entity.ProductSize) error
	DeleteSize(ctx context.Context, productID, size string) error
	UpdateSizePrice(ctx context.Context, productID, size string, price decimal.Decimal) error
	// AdjustSizeQuantity suma delta a la existencia de la talla. Retorna
	// domain.ErrInsufficientStock si el resultado quedaría negativo.
	AdjustSizeQuantity(ctx context.Context, productID, size string, delta int) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateImage(ctx context.Context, id, imageKey string) error
}
