package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportNote documento de recepción de mercancía de un proveedor.
type ImportNote struct {
	ID          string
	NoteCode    string
	SupplierID  string
	CreatedBy   string // user id
	TotalAmount decimal.Decimal
	Status      string // Pending, Completed, Canceled
	Details     []ImportNoteDetail
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Solo lectura (JOIN)
	SupplierName  string
	CreatedByName string
}

// ImportNoteDetail línea pedida al proveedor; ReceivedQuantity se fija al completar.
type ImportNoteDetail struct {
	ID               string
	ImportNoteID     string
	ProductID        string
	Size             string
	Quantity         int
	Price            decimal.Decimal
	ReceivedQuantity *int
	ProductName      string // JOIN
	ProductSKU       string // JOIN
}

// Total precio por cantidad pedida.
func (d ImportNoteDetail) Total() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
