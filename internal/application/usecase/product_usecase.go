package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/export"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

// MaxImageSize tamaño máximo de imagen aceptado (5 MiB).
const MaxImageSize = 5 << 20

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductUseCase casos de uso del catálogo. El stock por talla solo cambia
// por ventas y notas de importación; aquí se gestionan tallas y precios.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	storage      ImageStorage // nil = carga de imágenes deshabilitada
	excel        export.Writer
	activity     *activity.Recorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	storage ImageStorage,
	excel export.Writer,
	rec *activity.Recorder,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		storage:      storage,
		excel:        excel,
		activity:     rec,
	}
}

// parseSizes valida y normaliza las tallas de entrada.
func parseSizes(in []dto.SizeRequest) ([]entity.ProductSize, error) {
	out := make([]entity.ProductSize, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		sz, err := parseSize(s)
		if err != nil {
			return nil, err
		}
		if seen[sz.Size] {
			return nil, domain.Invalid("talla repetida: " + sz.Size)
		}
		seen[sz.Size] = true
		out = append(out, sz)
	}
	return out, nil
}

func parseSize(s dto.SizeRequest) (entity.ProductSize, error) {
	size, ok := entity.NormalizeSize(s.Size)
	if !ok {
		return entity.ProductSize{}, domain.Invalid("talla inválida: " + s.Size)
	}
	if s.Price.IsNegative() {
		return entity.ProductSize{}, domain.Invalid("el precio no puede ser negativo")
	}
	if s.Quantity < 0 {
		return entity.ProductSize{}, domain.Invalid("la cantidad no puede ser negativa")
	}
	return entity.ProductSize{Size: size, Price: s.Price, Quantity: s.Quantity}, nil
}

func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.Invalid("category_id no existe")
		}
	}
	if supplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.Invalid("supplier_id no existe")
		}
	}
	return nil
}

func productSearchKey(p *entity.Product) string {
	return textsearch.Key(p.Name, p.SKU, p.Barcode, p.Description)
}

// Create crea un producto con sus tallas iniciales (opcionales).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.Invalid("sku y name son requeridos")
	}
	if in.Status != "" && !entity.IsValidProductStatus(in.Status) {
		return nil, domain.Invalid("status inválido: " + in.Status)
	}
	sizes, err := parseSizes(in.Sizes)
	if err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Barcode:     strings.TrimSpace(in.Barcode),
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		Status:      in.Status,
		Sizes:       sizes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Status == "" {
		p.Status = entity.ProductInStock
		if p.TotalQuantity() == 0 {
			p.Status = entity.ProductOutOfStock
		}
	}
	p.SearchKey = productSearchKey(p)

	err = uc.repo.Create(ctx, p)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: p.ID, Action: "create", Details: p.SKU + " " + p.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, p.ID)
}

// GetByID obtiene un producto con tallas, categoría y proveedor.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(ctx, p), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Update actualiza datos generales. Las tallas se editan con AddSize/DeleteSize/UpdateSizePrice.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede quedar vacío")
		}
		p.Name = name
	}
	if in.Barcode != nil {
		p.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !entity.IsValidProductStatus(*in.Status) {
			return nil, domain.Invalid("status inválido: " + *in.Status)
		}
		p.Status = *in.Status
	}
	categoryID, supplierID := "", ""
	if in.CategoryID != nil {
		p.CategoryID, categoryID = *in.CategoryID, *in.CategoryID
	}
	if in.SupplierID != nil {
		p.SupplierID, supplierID = *in.SupplierID, *in.SupplierID
	}
	if err := uc.checkRefs(ctx, categoryID, supplierID); err != nil {
		return nil, err
	}
	p.SearchKey = productSearchKey(p)
	p.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, p)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: p.ID, Action: "update", Details: p.SKU, Err: err})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un producto y su imagen.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: id, Action: "delete", Details: p.SKU, Err: err})
	if err != nil {
		return err
	}
	if p.ImageKey != "" && uc.storage != nil {
		_ = uc.storage.Remove(ctx, p.ImageKey)
	}
	return nil
}

// List lista productos con filtros de texto, estado, categoría y proveedor.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	f := listFilter(in.PageRequest)
	if f.Status != "" && !entity.IsValidProductStatus(f.Status) {
		return nil, domain.Invalid("status inválido: " + f.Status)
	}
	f.CategoryID = in.CategoryID
	f.SupplierID = in.SupplierID
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toProductResponse(ctx, p))
	}
	return &dto.ProductListResponse{Items: items, Page: page(f, total)}, nil
}

// ListBySupplier productos de un proveedor (formulario de nota de importación).
func (uc *ProductUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]dto.ProductResponse, error) {
	s, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toProductResponse(ctx, p))
	}
	return items, nil
}

// AddSize agrega una talla. Si ya existe retorna ErrDuplicate.
func (uc *ProductUseCase) AddSize(ctx context.Context, productID string, in dto.SizeRequest) (*dto.ProductResponse, error) {
	sz, err := parseSize(in)
	if err != nil {
		return nil, err
	}
	p, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Size(sz.Size) != nil {
		return nil, domain.ErrDuplicate
	}
	err = uc.repo.AddSize(ctx, productID, sz)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: productID, Action: "add_size", Details: sz.Size, Err: err})
	if err != nil {
		return nil, err
	}
	p.Sizes = append(p.Sizes, sz)
	if err := uc.syncStatus(ctx, p); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, productID)
}

// DeleteSize quita una talla. Un producto no puede quedarse sin tallas.
func (uc *ProductUseCase) DeleteSize(ctx context.Context, productID, size string) (*dto.ProductResponse, error) {
	size, _ = entity.NormalizeSize(size)
	p, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Size(size) == nil {
		return nil, domain.ErrNotFound
	}
	if len(p.Sizes) == 1 {
		return nil, fmt.Errorf("no se puede eliminar la única talla: %w", domain.ErrConflict)
	}
	err = uc.repo.DeleteSize(ctx, productID, size)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: productID, Action: "delete_size", Details: size, Err: err})
	if err != nil {
		return nil, err
	}
	kept := p.Sizes[:0]
	for _, s := range p.Sizes {
		if s.Size != size {
			kept = append(kept, s)
		}
	}
	p.Sizes = kept
	if err := uc.syncStatus(ctx, p); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, productID)
}

// UpdateSizePrice cambia el precio de una talla.
func (uc *ProductUseCase) UpdateSizePrice(ctx context.Context, productID, size string, price decimal.Decimal) (*dto.ProductResponse, error) {
	size, _ = entity.NormalizeSize(size)
	if price.IsNegative() {
		return nil, domain.Invalid("el precio no puede ser negativo")
	}
	p, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Size(size) == nil {
		return nil, domain.ErrNotFound
	}
	err = uc.repo.UpdateSizePrice(ctx, productID, size, price)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: productID, Action: "update_price", Details: size + " " + price.String(), Err: err})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, productID)
}

func (uc *ProductUseCase) syncStatus(ctx context.Context, p *entity.Product) error {
	status := p.StatusAfterStockChange()
	if status == p.Status {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, p.ID, status)
}

// UploadImage sube la imagen al almacenamiento y reemplaza la anterior.
func (uc *ProductUseCase) UploadImage(ctx context.Context, productID, contentType string, size int64, r io.Reader) (*dto.ProductResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrStorageDisabled
	}
	ext, ok := imageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, domain.Invalid("tipo de imagen no soportado: " + contentType)
	}
	if size <= 0 || size > MaxImageSize {
		return nil, domain.Invalid("la imagen debe pesar entre 1 byte y 5 MiB")
	}
	p, err := uc.get(ctx, productID)
	if err != nil {
		return nil, err
	}
	key := path.Join("products", productID, uuid.New().String()+ext)
	if err := uc.storage.Upload(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("subir imagen: %w", err)
	}
	err = uc.repo.UpdateImage(ctx, productID, key)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityProduct, EntityID: productID, Action: "upload_image", Details: key, Err: err})
	if err != nil {
		_ = uc.storage.Remove(ctx, key)
		return nil, err
	}
	if p.ImageKey != "" {
		_ = uc.storage.Remove(ctx, p.ImageKey)
	}
	return uc.GetByID(ctx, productID)
}

// ExportExcel exporta el catálogo filtrado (una fila por talla).
func (uc *ProductUseCase) ExportExcel(ctx context.Context, in dto.ProductListRequest) ([]byte, error) {
	f := listFilter(in.PageRequest)
	f.CategoryID = in.CategoryID
	f.SupplierID = in.SupplierID
	f.Limit, f.Offset = 0, 0 // sin paginación
	list, _, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Sheet:   "Productos",
		Headers: []string{"SKU", "Código de barras", "Nombre", "Categoría", "Proveedor", "Estado", "Talla", "Precio", "Cantidad"},
	}
	for _, p := range list {
		if len(p.Sizes) == 0 {
			t.Rows = append(t.Rows, []interface{}{p.SKU, p.Barcode, p.Name, p.CategoryName, p.SupplierName, p.Status, "", "", 0})
			continue
		}
		for _, s := range p.Sizes {
			price, _ := s.Price.Float64()
			t.Rows = append(t.Rows, []interface{}{p.SKU, p.Barcode, p.Name, p.CategoryName, p.SupplierName, p.Status, s.Size, price, s.Quantity})
		}
	}
	return uc.excel.Write(ctx, t)
}

func (uc *ProductUseCase) toProductResponse(ctx context.Context, p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Status:        p.Status,
		Sizes:         make([]dto.SizeResponse, 0, len(p.Sizes)),
		TotalQuantity: p.TotalQuantity(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, s := range p.Sizes {
		out.Sizes = append(out.Sizes, dto.SizeResponse{Size: s.Size, Price: s.Price, Quantity: s.Quantity})
	}
	if p.ImageKey != "" && uc.storage != nil {
		if url, err := uc.storage.URL(ctx, p.ImageKey); err == nil {
			out.ImageURL = url
		}
	}
	return out
}
