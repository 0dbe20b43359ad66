package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductInStock      = "in_stock"
	ProductOutOfStock   = "out_of_stock"
	ProductRestocking   = "restocking"
	ProductDiscontinued = "discontinued"
)

// Tallas válidas, en orden de presentación.
var ValidSizes = []string{"S", "M", "L", "XL", "XXL"}

// NormalizeSize devuelve la talla en mayúsculas y si es válida.
func NormalizeSize(s string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, v := range ValidSizes {
		if v == up {
			return up, true
		}
	}
	return up, false
}

// IsValidProductStatus indica si status es un estado de producto conocido.
func IsValidProductStatus(status string) bool {
	switch status {
	case ProductInStock, ProductOutOfStock, ProductRestocking, ProductDiscontinued:
		return true
	}
	return false
}

// Product representa un artículo del catálogo. El stock se lleva por talla.
type Product struct {
	ID          string
	SKU         string // único
	Barcode     string // único si no está vacío
	Name        string
	Description string
	CategoryID  string // vacío si no tiene
	SupplierID  string // vacío si no tiene
	Status      string
	ImageKey    string // objeto en MinIO
	Sizes       []ProductSize
	SearchKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Solo lectura (JOIN)
	CategoryName string
	SupplierName string
}

// ProductSize precio y existencias de una talla.
type ProductSize struct {
	Size     string
	Price    decimal.Decimal
	Quantity int
}

// Size devuelve la talla indicada o nil.
func (p *Product) Size(size string) *ProductSize {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i]
		}
	}
	return nil
}

// TotalQuantity suma las existencias de todas las tallas.
func (p *Product) TotalQuantity() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Quantity
	}
	return total
}

// StatusAfterStockChange calcula el estado tras mover stock.
// discontinued nunca cambia automáticamente.
func (p *Product) StatusAfterStockChange() string {
	if p.Status == ProductDiscontinued {
		return p.Status
	}
	if p.TotalQuantity() == 0 {
		return ProductOutOfStock
	}
	if p.Status == ProductOutOfStock || p.Status == ProductRestocking {
		return ProductInStock
	}
	return p.Status
}
