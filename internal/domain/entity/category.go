package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	SearchKey   string // nombre + descripción plegados (textsearch)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
