package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/tienda-rfid-api/internal/application/inventory"
)

var receiptTitles = map[string]string{
	"import": "COMPROBANTE DE IMPORTACIÓN",
	"export": "COMPROBANTE DE EXPORTACIÓN",
}

// GenerateReceiptPDF genera el comprobante de un movimiento de mercancía.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, r *inventory.Receipt) ([]byte, error) {
	title, ok := receiptTitles[r.Type]
	if !ok {
		title = "COMPROBANTE"
	}
	m := g.newDocument(title + " " + r.Code)

	m.AddRows(g.headerRow(title, r.Code, r.IssuedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("Emitido por: "+nonEmpty(r.IssuedBy, "—"), props.Text{Size: 9, Top: 3, Color: colorGray}),
	)))

	m.AddRows(tableHeaderRow(
		cell{"#", 1, align.Center},
		cell{"Producto", 8, align.Left},
		cell{"Cantidad", 3, align.Right},
	))
	total := 0
	for i, it := range r.Items {
		total += it.Quantity
		m.AddRows(detailRow(
			cell{fmt.Sprint(i + 1), 1, align.Center},
			cell{it.Name, 8, align.Left},
			cell{fmt.Sprint(it.Quantity), 3, align.Right},
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Total de unidades:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
		})),
		col.New(3).Add(text.New(fmt.Sprint(total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 1,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}
