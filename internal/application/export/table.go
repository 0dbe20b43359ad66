// Package export define las tablas que se vuelcan a hojas de cálculo.
package export

import "context"

// Table una hoja: nombre, encabezados y filas con valores simples (string, int, float64, time).
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// Writer serializa una o varias tablas a un libro (xlsx).
type Writer interface {
	Write(ctx context.Context, tables ...Table) ([]byte, error)
}
