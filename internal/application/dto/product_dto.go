package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SizeRequest talla con precio y existencias.
type SizeRequest struct {
	Size     string          `json:"size" validate:"required,oneof=S M L XL XXL"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

// CreateProductRequest entrada para crear un producto. Sizes puede ir vacío.
type CreateProductRequest struct {
	SKU         string        `json:"sku" validate:"required,max=100"`
	Barcode     string        `json:"barcode"`
	Name        string        `json:"name" validate:"required,max=200"`
	Description string        `json:"description"`
	CategoryID  string        `json:"category_id"`
	SupplierID  string        `json:"supplier_id"`
	Status      string        `json:"status"`
	Sizes       []SizeRequest `json:"sizes"`
}

// UpdateProductRequest entrada para actualizar un producto (las tallas tienen sus propias rutas).
type UpdateProductRequest struct {
	Barcode     *string `json:"barcode"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	SupplierID  *string `json:"supplier_id"`
	Status      *string `json:"status"`
}

// UpdateSizePriceRequest body de PUT /api/products/:id/sizes/:size.
type UpdateSizePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	PageRequest
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
}

// SizeResponse talla en respuestas.
type SizeResponse struct {
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string         `json:"id"`
	SKU           string         `json:"sku"`
	Barcode       string         `json:"barcode,omitempty"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	CategoryID    string         `json:"category_id,omitempty"`
	CategoryName  string         `json:"category_name,omitempty"`
	SupplierID    string         `json:"supplier_id,omitempty"`
	SupplierName  string         `json:"supplier_name,omitempty"`
	Status        string         `json:"status"`
	ImageURL      string         `json:"image_url,omitempty"`
	Sizes         []SizeResponse `json:"sizes"`
	TotalQuantity int            `json:"total_quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
