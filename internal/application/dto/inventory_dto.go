package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportNoteItemRequest línea pedida al proveedor.
type ImportNoteItemRequest struct {
	ProductID string          `json:"product_id"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CreateImportNoteRequest body para POST /api/import-notes.
type CreateImportNoteRequest struct {
	SupplierID string                  `json:"supplier_id"`
	Items      []ImportNoteItemRequest `json:"items"`
}

// ReceivedItemRequest cantidad recibida de una línea.
type ReceivedItemRequest struct {
	DetailID         string `json:"detail_id"`
	ReceivedQuantity int    `json:"received_quantity"`
}

// CompleteImportNoteRequest body para POST /api/import-notes/:id/complete.
// Si Items va vacío se asume recibido todo lo pedido.
type CompleteImportNoteRequest struct {
	Items []ReceivedItemRequest `json:"items"`
}

// ImportNoteDetailResponse línea de la nota.
type ImportNoteDetailResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name,omitempty"`
	ProductSKU       string          `json:"product_sku,omitempty"`
	Size             string          `json:"size"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Total            decimal.Decimal `json:"total"`
	ReceivedQuantity *int            `json:"received_quantity,omitempty"`
}

// ImportNoteResponse nota de importación con detalle.
type ImportNoteResponse struct {
	ID            string                     `json:"id"`
	NoteCode      string                     `json:"note_code"`
	SupplierID    string                     `json:"supplier_id"`
	SupplierName  string                     `json:"supplier_name,omitempty"`
	CreatedBy     string                     `json:"created_by"`
	CreatedByName string                     `json:"created_by_name,omitempty"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	Status        string                     `json:"status"`
	Details       []ImportNoteDetailResponse `json:"details"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ImportNoteListResponse lista paginada de notas.
type ImportNoteListResponse struct {
	Items []ImportNoteResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// TransactionItemRequest línea del comprobante de transacción.
type TransactionItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// TransactionReceiptRequest body para POST /api/transactions/receipt.
type TransactionReceiptRequest struct {
	Type  string                   `json:"type"` // import | export
	Items []TransactionItemRequest `json:"items"`
}

// ImportNoteListRequest filtros del listado de notas de importación.
type ImportNoteListRequest struct {
	PageRequest
	SupplierID string
	From       *time.Time
	To         *time.Time
}
