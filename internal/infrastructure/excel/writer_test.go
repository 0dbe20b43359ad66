package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-rfid-api/internal/application/export"
)

func TestWriter_UnaHojaPorTabla(t *testing.T) {
	out, err := NewWriter().Write(context.Background(),
		export.Table{
			Sheet:   "Facturas",
			Headers: []string{"Código", "Total"},
			Rows:    [][]interface{}{{"INV-1", 1500.5}, {"INV-2", 20}},
		},
		export.Table{
			Sheet:   "Detalle",
			Headers: []string{"Factura", "Producto", "Cantidad"},
			Rows:    [][]interface{}{{"INV-1", "Camisa", 2}},
		},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Facturas", "Detalle"}, f.GetSheetList())
	v, err := f.GetCellValue("Facturas", "A3")
	require.NoError(t, err)
	assert.Equal(t, "INV-2", v)
	v, err = f.GetCellValue("Detalle", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestWriter_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWriter().Write(ctx, export.Table{Sheet: "X"})
	assert.ErrorIs(t, err, context.Canceled)
}
