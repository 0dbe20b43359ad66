// Package excel vuelca tablas de exportación a libros xlsx con excelize.
package excel

import (
	"context"

	"github.com/pkg/errors"
	excelize "github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-rfid-api/internal/application/export"
)

const defaultSheet = "Sheet1"

var _ export.Writer = (*Writer)(nil)

// Writer implementa export.Writer.
type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

// Write crea una hoja por tabla (encabezado en negrita en la fila 1) y devuelve el xlsx.
func (w *Writer) Write(ctx context.Context, tables ...export.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error while styling header")
	}

	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Sheet); err != nil {
				return nil, errors.Wrapf(err, "error while renaming sheet %s", t.Sheet)
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return nil, errors.Wrapf(err, "error while creating sheet %s", t.Sheet)
		}
		if err := writeTable(f, t, header); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "error while writing workbook")
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, t export.Table, headerStyle int) error {
	headers := make([]interface{}, 0, len(t.Headers))
	for _, h := range t.Headers {
		headers = append(headers, h)
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &headers); err != nil {
		return errors.Wrap(err, "error while setSheetRow")
	}
	if len(t.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return errors.Wrap(err, "error while naming column")
		}
		if err := f.SetCellStyle(t.Sheet, "A1", last+"1", headerStyle); err != nil {
			return errors.Wrap(err, "error while styling header")
		}
		if err := f.SetColWidth(t.Sheet, "A", last, 20); err != nil {
			return errors.Wrap(err, "error while styling column width")
		}
	}

	for i, r := range t.Rows {
		row := r
		startCell, err := excelize.JoinCellName("A", i+2)
		if err != nil {
			return errors.Wrap(err, "error while startCell")
		}
		if err := f.SetSheetRow(t.Sheet, startCell, &row); err != nil {
			return errors.Wrap(err, "error while setSheetRow")
		}
	}
	return nil
}
