package inventory

import (
	"context"
	"fmt"
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
)

// ImportNoteUseCase pedidos a proveedores y su recepción en bodega.
type ImportNoteUseCase struct {
	txRunner     TxRunner
	stock        *StockService
	noteRepo     repository.ImportNoteRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	excel        export.Writer
	activity     *activity.Recorder
	now          func() time.Time
}

// NewImportNoteUseCase construye el caso de uso.
func NewImportNoteUseCase(
	txRunner TxRunner,
	stock *StockService,
	noteRepo repository.ImportNoteRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	excel export.Writer,
	rec *activity.Recorder,
) *ImportNoteUseCase {
	return &ImportNoteUseCase{
		txRunner:     txRunner,
		stock:        stock,
		noteRepo:     noteRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		excel:        excel,
		activity:     rec,
		now:          time.Now,
	}
}

// noteCode IMP-yyyymmdd-XXXXXX.
func noteCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("IMP-%s-%s", now.Format("20060102"), suffix)
}

// Create registra una nota Pending. Todos los productos deben pertenecer al
// proveedor y tener la talla pedida; el stock no cambia hasta Complete.
func (uc *ImportNoteUseCase) Create(ctx context.Context, in dto.CreateImportNoteRequest) (*dto.ImportNoteResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.Invalid("supplier_id es requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("la nota debe tener al menos una línea")
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	note := &entity.ImportNote{
		ID:         uuid.New().String(),
		NoteCode:   noteCode(now),
		SupplierID: supplier.ID,
		CreatedBy:  activity.Actor(ctx),
		Status:     entity.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,

		SupplierName: supplier.Name,
	}
	products := make(map[string]*entity.Product)
	total := decimal.Zero
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: quantity debe ser mayor que 0", i+1))
		}
		if item.Price.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: price no puede ser negativo", i+1))
		}
		size, ok := entity.NormalizeSize(item.Size)
		if !ok {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: talla inválida %q", i+1, item.Size))
		}
		p, found := products[item.ProductID]
		if !found {
			p, err = uc.productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, domain.Invalid(fmt.Sprintf("línea %d: producto no encontrado", i+1))
			}
			products[item.ProductID] = p
		}
		if p.SupplierID != supplier.ID {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: %s no pertenece al proveedor", i+1, p.Name))
		}
		if p.Size(size) == nil {
			return nil, domain.Invalid(fmt.Sprintf("línea %d: %s no tiene la talla %s", i+1, p.Name, size))
		}
		d := entity.ImportNoteDetail{
			ID:           uuid.New().String(),
			ImportNoteID: note.ID,
			ProductID:    p.ID,
			Size:         size,
			Quantity:     item.Quantity,
			Price:        item.Price,
			ProductName:  p.Name,
			ProductSKU:   p.SKU,
		}
		total = total.Add(d.Total())
		note.Details = append(note.Details, d)
	}
	note.TotalAmount = total

	err = uc.noteRepo.Create(ctx, note)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityImportNote, EntityID: note.ID, Action: "create", Details: note.NoteCode, Err: err})
	if err != nil {
		return nil, err
	}
	return ToImportNoteResponse(note), nil
}

// GetByID devuelve la nota con su detalle.
func (uc *ImportNoteUseCase) GetByID(ctx context.Context, id string) (*dto.ImportNoteResponse, error) {
	note, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToImportNoteResponse(note), nil
}

func (uc *ImportNoteUseCase) get(ctx context.Context, id string) (*entity.ImportNote, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func (uc *ImportNoteUseCase) filter(in dto.ImportNoteListRequest) (repository.ListFilter, error) {
	in.DefaultPage()
	switch in.Status {
	case "", entity.StatusPending, entity.StatusCompleted, entity.StatusCanceled:
	default:
		return repository.ListFilter{}, domain.Invalid("status inválido: " + in.Status)
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return repository.ListFilter{}, domain.Invalid("el rango de fechas es inválido")
	}
	return repository.ListFilter{
		Keyword:    strings.TrimSpace(in.Keyword),
		Status:     in.Status,
		SupplierID: in.SupplierID,
		From:       in.From,
		To:         in.To,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}, nil
}

// List lista notas (sin detalle) filtradas por código/proveedor, estado y fechas.
func (uc *ImportNoteUseCase) List(ctx context.Context, in dto.ImportNoteListRequest) (*dto.ImportNoteListResponse, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.noteRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ImportNoteResponse, 0, len(list))
	for _, n := range list {
		items = append(items, *ToImportNoteResponse(n))
	}
	return &dto.ImportNoteListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total}}, nil
}

// Complete registra lo recibido (0 ≤ recibido ≤ pedido) y suma el stock en una sola transacción.
// Sin líneas se asume recibido todo lo pedido.
func (uc *ImportNoteUseCase) Complete(ctx context.Context, id string, in dto.CompleteImportNoteRequest) (*dto.ImportNoteResponse, error) {
	note, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la nota está %s", domain.ErrInvalidTransition, note.Status)
	}

	received := make(map[string]int, len(note.Details))
	if len(in.Items) == 0 {
		for _, d := range note.Details {
			received[d.ID] = d.Quantity
		}
	} else {
		byID := make(map[string]entity.ImportNoteDetail, len(note.Details))
		for _, d := range note.Details {
			byID[d.ID] = d
		}
		for _, it := range in.Items {
			d, ok := byID[it.DetailID]
			if !ok {
				return nil, domain.Invalid("detail_id no pertenece a la nota: " + it.DetailID)
			}
			if it.ReceivedQuantity < 0 || it.ReceivedQuantity > d.Quantity {
				return nil, domain.Invalid(fmt.Sprintf("%s talla %s: recibido debe estar entre 0 y %d", d.ProductName, d.Size, d.Quantity))
			}
			received[d.ID] = it.ReceivedQuantity
		}
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, noteRepo repository.ImportNoteRepository) error {
		if err := noteRepo.Transition(ctx, note.ID, entity.StatusPending, entity.StatusCompleted); err != nil {
			return err
		}
		for i := range note.Details {
			d := &note.Details[i]
			qty := received[d.ID] // líneas omitidas cuentan como 0
			if err := noteRepo.SetReceived(ctx, d.ID, qty); err != nil {
				return err
			}
			if err := uc.stock.ApplyInTx(ctx, productRepo, d.ProductID, d.Size, qty); err != nil {
				return fmt.Errorf("%s talla %s: %w", d.ProductName, d.Size, err)
			}
			d.ReceivedQuantity = &qty
		}
		return nil
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityImportNote, EntityID: note.ID, Action: "complete", Details: note.NoteCode, Err: err})
	if err != nil {
		return nil, err
	}
	note.Status = entity.StatusCompleted
	note.UpdatedAt = uc.now()
	return ToImportNoteResponse(note), nil
}

// Cancel anula una nota Pending. No toca el stock.
func (uc *ImportNoteUseCase) Cancel(ctx context.Context, id string) (*dto.ImportNoteResponse, error) {
	note, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la nota está %s", domain.ErrInvalidTransition, note.Status)
	}
	err = uc.noteRepo.Transition(ctx, note.ID, entity.StatusPending, entity.StatusCanceled)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityImportNote, EntityID: note.ID, Action: "cancel", Details: note.NoteCode, Err: err})
	if err != nil {
		return nil, err
	}
	note.Status = entity.StatusCanceled
	return ToImportNoteResponse(note), nil
}

// ExportExcel vuelca las notas filtradas con una fila por línea.
func (uc *ImportNoteUseCase) ExportExcel(ctx context.Context, in dto.ImportNoteListRequest) ([]byte, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0
	list, _, err := uc.noteRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Sheet:   "Notas de importación",
		Headers: []string{"Código", "Fecha", "Proveedor", "Estado", "Producto", "SKU", "Talla", "Pedido", "Recibido", "Precio", "Total"},
	}
	for _, n := range list {
		full, err := uc.noteRepo.GetByID(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		if full == nil {
			continue
		}
		for _, d := range full.Details {
			var rec interface{} = ""
			if d.ReceivedQuantity != nil {
				rec = *d.ReceivedQuantity
			}
			price, _ := d.Price.Float64()
			lineTotal, _ := d.Total().Float64()
			t.Rows = append(t.Rows, []interface{}{full.NoteCode, full.CreatedAt, full.SupplierName, full.Status, d.ProductName, d.ProductSKU, d.Size, d.Quantity, rec, price, lineTotal})
		}
	}
	return uc.excel.Write(ctx, t)
}

// ToImportNoteResponse mapea la entidad a la respuesta HTTP.
func ToImportNoteResponse(n *entity.ImportNote) *dto.ImportNoteResponse {
	out := &dto.ImportNoteResponse{
		ID:            n.ID,
		NoteCode:      n.NoteCode,
		SupplierID:    n.SupplierID,
		SupplierName:  n.SupplierName,
		CreatedBy:     n.CreatedBy,
		CreatedByName: n.CreatedByName,
		TotalAmount:   n.TotalAmount,
		Status:        n.Status,
		Details:       make([]dto.ImportNoteDetailResponse, 0, len(n.Details)),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
	for _, d := range n.Details {
		out.Details = append(out.Details, dto.ImportNoteDetailResponse{
			ID:               d.ID,
			ProductID:        d.ProductID,
			ProductName:      d.ProductName,
			ProductSKU:       d.ProductSKU,
			Size:             d.Size,
			Quantity:         d.Quantity,
			Price:            d.Price,
			Total:            d.Total(),
			ReceivedQuantity: d.ReceivedQuantity,
		})
	}
	return out
}
