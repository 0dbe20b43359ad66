package entity

import "time"

// Supplier proveedor de mercancía (notas de importación).
type Supplier struct {
	ID          string
	Name        string
	PhoneNumber string
	Address     string
	Email       string
	SearchKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
