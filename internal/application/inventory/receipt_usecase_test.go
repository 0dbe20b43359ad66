package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

type captureReceipt struct{ got *Receipt }

func (c *captureReceipt) GenerateReceiptPDF(_ context.Context, r *Receipt) ([]byte, error) {
	c.got = r
	return []byte("%PDF"), nil
}

func TestReceipt_Build(t *testing.T) {
	gen := &captureReceipt{}
	products := newMemProducts(&entity.Product{ID: "p1", Name: "Camisa"})
	uc := NewReceiptUseCase(products, nil, gen)
	uc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	pdf, name, err := uc.Build(context.Background(), dto.TransactionReceiptRequest{
		Type:  "Export",
		Items: []dto.TransactionItemRequest{{ProductID: "p1", Quantity: 2}, {Name: "Gorra", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Equal(t, "TRX-1700000000123.pdf", name)
	require.NotNil(t, gen.got)
	assert.Equal(t, ReceiptExport, gen.got.Type)
	assert.Equal(t, "Camisa", gen.got.Items[0].Name)
	assert.Equal(t, "Gorra", gen.got.Items[1].Name)
}

func TestReceipt_BuildValidaciones(t *testing.T) {
	uc := NewReceiptUseCase(newMemProducts(), nil, &captureReceipt{})
	ctx := context.Background()

	_, _, err := uc.Build(ctx, dto.TransactionReceiptRequest{Type: "import"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "carrito vacío")

	_, _, err = uc.Build(ctx, dto.TransactionReceiptRequest{Type: "traslado", Items: []dto.TransactionItemRequest{{Name: "x", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.Build(ctx, dto.TransactionReceiptRequest{Type: "import", Items: []dto.TransactionItemRequest{{Name: "x", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
