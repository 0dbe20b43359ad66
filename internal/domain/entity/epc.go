package entity

import (
	"strings"
	"time"
)

// EPC etiqueta RFID registrada. ProductID vacío = sin asignar.
type EPC struct {
	ID         string
	EPC        string
	ProductID  string
	AssignedAt *time.Time
	CreatedAt  time.Time

	// Solo lectura (JOIN)
	ProductName  string
	ProductSKU   string
	CategoryName string
}

// IsAssigned indica si la etiqueta está vinculada a un producto.
func (e *EPC) IsAssigned() bool {
	return e.ProductID != ""
}

// NormalizeEPC limpia separadores y pasa a mayúsculas. Devuelve "" si no es hexadecimal.
func NormalizeEPC(raw string) string {
	s := strings.ToUpper(strings.NewReplacer(" ", "", "-", "", ":", "").Replace(strings.TrimSpace(raw)))
	if s == "" || len(s) > 128 {
		return ""
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return ""
		}
	}
	return s
}
