package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/export"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

type captureWriter struct{ tables []export.Table }

func (w *captureWriter) Write(_ context.Context, tables ...export.Table) ([]byte, error) {
	w.tables = tables
	return []byte("xlsx"), nil
}

type productFixture struct {
	uc       *ProductUseCase
	products *memProducts
	storage  *fakeStorage
	excel    *captureWriter
}

func newProductFixture(withStorage bool) productFixture {
	cats := newMemCategories()
	cats.items["c1"] = &entity.Category{ID: "c1", Name: "Camisas"}
	sups := &memSuppliers{items: map[string]*entity.Supplier{"s1": {ID: "s1", Name: "Textiles"}}}
	f := productFixture{products: newMemProducts(), excel: &captureWriter{}}
	var storage ImageStorage
	if withStorage {
		f.storage = newFakeStorage()
		storage = f.storage
	}
	f.uc = NewProductUseCase(f.products, cats, sups, storage, f.excel, nil)
	return f
}

func sizeReq(size string, price int64, qty int) dto.SizeRequest {
	return dto.SizeRequest{Size: size, Price: decimal.NewFromInt(price), Quantity: qty}
}

func TestProduct_CreateDerivaEstado(t *testing.T) {
	f := newProductFixture(false)
	ctx := context.Background()

	out, err := f.uc.Create(ctx, dto.CreateProductRequest{
		SKU: " CAM-1 ", Name: "Camisa lino", CategoryID: "c1", SupplierID: "s1",
		Sizes: []dto.SizeRequest{sizeReq("m", 50, 3), sizeReq("L", 55, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "CAM-1", out.SKU)
	assert.Equal(t, entity.ProductInStock, out.Status)
	assert.Equal(t, 3, out.TotalQuantity)
	assert.Equal(t, "M", out.Sizes[0].Size)

	empty, err := f.uc.Create(ctx, dto.CreateProductRequest{SKU: "CAM-2", Name: "Camisa sin stock"})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductOutOfStock, empty.Status)

	_, err = f.uc.Create(ctx, dto.CreateProductRequest{SKU: "CAM-1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_CreateValidaciones(t *testing.T) {
	f := newProductFixture(false)
	cases := []dto.CreateProductRequest{
		{Name: "sin sku"},
		{SKU: "X", Name: "talla rara", Sizes: []dto.SizeRequest{sizeReq("XS", 1, 1)}},
		{SKU: "X", Name: "talla repetida", Sizes: []dto.SizeRequest{sizeReq("M", 1, 1), sizeReq("m", 1, 1)}},
		{SKU: "X", Name: "precio negativo", Sizes: []dto.SizeRequest{sizeReq("M", -1, 1)}},
		{SKU: "X", Name: "categoría", CategoryID: "nope"},
		{SKU: "X", Name: "estado", Status: "agotado"},
	}
	for _, in := range cases {
		_, err := f.uc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in.Name)
	}
}

func TestProduct_Tallas(t *testing.T) {
	f := newProductFixture(false)
	ctx := context.Background()
	p, err := f.uc.Create(ctx, dto.CreateProductRequest{SKU: "G-1", Name: "Gorra", Sizes: []dto.SizeRequest{sizeReq("S", 20, 0)}})
	require.NoError(t, err)
	require.Equal(t, entity.ProductOutOfStock, p.Status)

	p, err = f.uc.AddSize(ctx, p.ID, sizeReq("M", 22, 4))
	require.NoError(t, err)
	assert.Len(t, p.Sizes, 2)
	assert.Equal(t, entity.ProductInStock, p.Status, "agregar stock reactiva el producto")

	_, err = f.uc.AddSize(ctx, p.ID, sizeReq("m", 22, 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err = f.uc.UpdateSizePrice(ctx, p.ID, "m", decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, p.Sizes[1].Price.Equal(decimal.NewFromInt(25)))

	p, err = f.uc.DeleteSize(ctx, p.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductOutOfStock, p.Status)

	_, err = f.uc.DeleteSize(ctx, p.ID, "S")
	assert.ErrorIs(t, err, domain.ErrConflict, "la última talla no se elimina")
	_, err = f.uc.DeleteSize(ctx, p.ID, "XL")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_UploadImage(t *testing.T) {
	f := newProductFixture(true)
	ctx := context.Background()
	p, err := f.uc.Create(ctx, dto.CreateProductRequest{SKU: "IMG", Name: "Con foto"})
	require.NoError(t, err)

	out, err := f.uc.UploadImage(ctx, p.ID, "image/png", 4, strings.NewReader("png!"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.ImageURL, "https://img.local/products/"+p.ID+"/"))
	assert.True(t, strings.HasSuffix(out.ImageURL, ".png"))
	first := f.products.items[p.ID].ImageKey

	_, err = f.uc.UploadImage(ctx, p.ID, "image/jpeg", 3, strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{first}, f.storage.removed, "la imagen anterior se borra")
	assert.Len(t, f.storage.objects, 1)

	_, err = f.uc.UploadImage(ctx, p.ID, "application/pdf", 3, strings.NewReader("pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.UploadImage(ctx, p.ID, "image/png", MaxImageSize+1, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	disabled := newProductFixture(false)
	_, err = disabled.uc.UploadImage(ctx, p.ID, "image/png", 4, strings.NewReader("png!"))
	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
}

func TestProduct_ExportExcelUnaFilaPorTalla(t *testing.T) {
	f := newProductFixture(false)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", Sizes: []dto.SizeRequest{sizeReq("S", 10, 1), sizeReq("M", 12, 2)}})
	require.NoError(t, err)

	data, err := f.uc.ExportExcel(ctx, dto.ProductListRequest{PageRequest: dto.PageRequest{Limit: 5}})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	require.Len(t, f.excel.tables, 1)
	assert.Len(t, f.excel.tables[0].Rows, 2)
	assert.Equal(t, 0, f.products.listed.Limit, "la exportación no pagina")
}
