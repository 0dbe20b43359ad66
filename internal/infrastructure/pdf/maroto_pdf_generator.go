// Package pdf genera los documentos imprimibles de la tienda con Maroto v2:
// la factura de venta y el comprobante de importación/exportación.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  N° Factura + Fecha          │
//	│  CLIENTE: Nombre + Tel       │  Vendedor + Tipo de orden    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Talla | Cant | P.Unit | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuentos / Envío / TOTAL             │
//	│  FOOTER: QR con el código de factura                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-rfid-api/internal/application/billing"
	"github.com/jhoicas/tienda-rfid-api/internal/application/inventory"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var (
	_ billing.InvoicePDFGenerator   = (*MarotoPDFGenerator)(nil)
	_ inventory.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa los generadores de factura y comprobante.
type MarotoPDFGenerator struct {
	storeName string
}

// NewMarotoPDFGenerator construye el generador; storeName encabeza los documentos.
func NewMarotoPDFGenerator(storeName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{storeName: storeName}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.storeName, true).
		Build()
	return maroto.New(cfg)
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	m := g.newDocument("Factura " + invoice.InvoiceCode)

	m.AddRows(g.headerRow("FACTURA DE VENTA", invoice.InvoiceCode, invoice.CreatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		cell{"Producto", 5, align.Left},
		cell{"Talla", 1, align.Center},
		cell{"Cant.", 1, align.Center},
		cell{"Precio Unit.", 2, align.Right},
		cell{"Total", 3, align.Right},
	))
	for _, d := range invoice.Details {
		m.AddRows(detailRow(
			cell{d.ProductName, 5, align.Left},
			cell{d.Size, 1, align.Center},
			cell{fmt.Sprint(d.Quantity), 1, align.Center},
			cell{money(d.UnitPrice), 2, align.Right},
			cell{money(d.LineTotal()), 3, align.Right},
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y tipo + número + fecha del documento (der).
func (g *MarotoPDFGenerator) headerRow(kind, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: cliente (izq) y vendedor/tipo de orden (der).
func customerRow(invoice *entity.Invoice) core.Row {
	orderInfo := "Tipo: " + invoice.OrderType
	if invoice.OrderType == entity.OrderOnline {
		orderInfo += "   |   Envío a: " + nonEmpty(invoice.ShippingAddress, "—")
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Tel: "+nonEmpty(invoice.CustomerPhone, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("VENDEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.SellerName, "—"), props.Text{Size: 9, Align: align.Right, Top: 6}),
			text.New(orderInfo, props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
		),
	)
}

type cell struct {
	value string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla en negrita sobre el color primario.
func tableHeaderRow(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func detailRow(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	labels := col.New(3)
	values := col.New(3)
	add := func(l, v string) {
		labels.Add(label(l))
		values.Add(value(v))
	}
	add("Subtotal:", money(invoice.Subtotal))
	if invoice.PromoDiscount.IsPositive() {
		add(fmt.Sprintf("Promoción %s (%s%%):", invoice.PromotionName, invoice.PromoDiscount.String()), "")
	}
	if invoice.CustomerDiscount.IsPositive() {
		add(fmt.Sprintf("Fidelidad (%s%%):", invoice.CustomerDiscount.String()), "")
	}
	add("Con descuentos:", money(invoice.DiscountedTotal))
	if invoice.ShippingFee.IsPositive() {
		add("Envío:", money(invoice.ShippingFee))
	}

	return row.New(30).Add(
		col.New(3),
		labels,
		values,
		col.New(3).Add(
			text.New("TOTAL A PAGAR", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(money(invoice.TotalPrice), props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Color: colorPrimary, Top: 7,
			}),
		),
	)
}

// footerRow: QR con el código de factura + puntos acumulados.
func footerRow(invoice *entity.Invoice) core.Row {
	msg := "Gracias por su compra."
	if invoice.PointsAwarded > 0 {
		msg += fmt.Sprintf("\nPuntos acumulados: %d", invoice.PointsAwarded)
	}
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(invoice.InvoiceCode, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(msg, props.Text{Size: 9, Top: 6, Left: 3, Color: colorGray}),
			text.New("Estado: "+invoice.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(d decimal.Decimal) string {
	s := d.StringFixed(0)
	if d.IsNegative() {
		return "-$" + formatMoney(s[1:])
	}
	return "$" + formatMoney(s)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
