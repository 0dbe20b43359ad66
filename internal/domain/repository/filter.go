package repository

import "time"

// ListFilter filtros comunes de los listados. Keyword se compara contra search_key (sin tildes).
type ListFilter struct {
	Keyword    string
	Status     string
	CategoryID string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
