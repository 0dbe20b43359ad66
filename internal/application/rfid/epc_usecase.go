package rfid

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	domrfid "github.com/jhoicas/tienda-rfid-api/internal/domain/rfid"
)

// Filtros de estado del listado de etiquetas.
const (
	FilterAssigned   = "assigned"
	FilterUnassigned = "unassigned"
)

// TagObserver recibe cambios de asignación (el hub actualiza la sesión en vivo).
type TagObserver interface {
	TagChanged(epc string, info domrfid.TagInfo)
}

// EPCUseCase registro de etiquetas y su asignación a productos.
type EPCUseCase struct {
	repo        repository.EPCRepository
	productRepo repository.ProductRepository
	txRunner    EPCTxRunner
	observer    TagObserver
	activity    *activity.Recorder
	now         func() time.Time
}

// NewEPCUseCase construye el caso de uso. observer puede ser nil.
func NewEPCUseCase(repo repository.EPCRepository, productRepo repository.ProductRepository, txRunner EPCTxRunner, observer TagObserver, rec *activity.Recorder) *EPCUseCase {
	return &EPCUseCase{repo: repo, productRepo: productRepo, txRunner: txRunner, observer: observer, activity: rec, now: time.Now}
}

// List lista etiquetas; Status admite assigned | unassigned.
func (uc *EPCUseCase) List(ctx context.Context, in dto.EPCListRequest) (*dto.EPCListResponse, error) {
	in.DefaultPage()
	switch in.Status {
	case "", FilterAssigned, FilterUnassigned:
	default:
		return nil, domain.Invalid("status debe ser assigned o unassigned")
	}
	f := repository.ListFilter{
		Keyword: strings.TrimSpace(in.Keyword),
		Status:  in.Status,
		Limit:   in.Limit,
		Offset:  in.Offset,
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EPCResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *ToEPCResponse(e))
	}
	return &dto.EPCListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total}}, nil
}

// Add registra una etiqueta sin asignar.
func (uc *EPCUseCase) Add(ctx context.Context, in dto.EPCRequest) (*dto.EPCResponse, error) {
	code := entity.NormalizeEPC(in.EPC)
	if code == "" {
		return nil, domain.Invalid("epc vacío o no hexadecimal")
	}
	existing, err := uc.repo.GetByEPC(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	e := &entity.EPC{ID: uuid.New().String(), EPC: code, CreatedAt: uc.now()}
	err = uc.repo.Create(ctx, e)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEPC, EntityID: e.ID, Action: "create", Details: code, Err: err})
	if err != nil {
		return nil, err
	}
	return ToEPCResponse(e), nil
}

// BulkAdd registra varias etiquetas en una sola transacción. Si alguna es inválida
// no se registra ninguna; las ya existentes se informan en Duplicates y se omiten.
func (uc *EPCUseCase) BulkAdd(ctx context.Context, in dto.BulkEPCRequest) (*dto.BulkEPCResponse, error) {
	if len(in.EPCs) == 0 {
		return nil, domain.Invalid("la lista de epcs está vacía")
	}
	out := &dto.BulkEPCResponse{}
	seen := make(map[string]bool, len(in.EPCs))
	codes := make([]string, 0, len(in.EPCs))
	for _, raw := range in.EPCs {
		code := entity.NormalizeEPC(raw)
		if code == "" {
			out.Invalid = append(out.Invalid, raw)
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(out.Invalid) > 0 {
		return out, domain.Invalid("epcs inválidos: " + strings.Join(out.Invalid, ", "))
	}

	now := uc.now()
	err := uc.txRunner.RunEPC(ctx, func(epcRepo repository.EPCRepository) error {
		existing, err := epcRepo.Existing(ctx, codes)
		if err != nil {
			return err
		}
		dup := make(map[string]bool, len(existing))
		for _, c := range existing {
			dup[c] = true
		}
		batch := make([]*entity.EPC, 0, len(codes))
		for _, c := range codes {
			if dup[c] {
				out.Duplicates = append(out.Duplicates, c)
				continue
			}
			batch = append(batch, &entity.EPC{ID: uuid.New().String(), EPC: c, CreatedAt: now})
		}
		if len(batch) == 0 {
			return nil
		}
		if err := epcRepo.CreateBatch(ctx, batch); err != nil {
			return err
		}
		out.Created = len(batch)
		return nil
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEPC, Action: "bulk_create",
		Details: strings.Join(codes, ","), Err: err})
	if err != nil {
		out.Created = 0
		return nil, err
	}
	return out, nil
}

// Delete elimina una etiqueta del registro.
func (uc *EPCUseCase) Delete(ctx context.Context, raw string) error {
	e, err := uc.get(ctx, raw)
	if err != nil {
		return err
	}
	err = uc.repo.Delete(ctx, e.EPC)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEPC, EntityID: e.ID, Action: "delete", Details: e.EPC, Err: err})
	if err != nil {
		return err
	}
	uc.notify(e.EPC, domrfid.TagInfo{})
	return nil
}

func (uc *EPCUseCase) get(ctx context.Context, raw string) (*entity.EPC, error) {
	code := entity.NormalizeEPC(raw)
	if code == "" {
		return nil, domain.Invalid("epc vacío o no hexadecimal")
	}
	e, err := uc.repo.GetByEPC(ctx, code)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// Get devuelve una etiqueta con su producto.
func (uc *EPCUseCase) Get(ctx context.Context, raw string) (*dto.EPCResponse, error) {
	e, err := uc.get(ctx, raw)
	if err != nil {
		return nil, err
	}
	return ToEPCResponse(e), nil
}

// Assign vincula la etiqueta a un producto. Una etiqueta desconocida se registra en el acto.
func (uc *EPCUseCase) Assign(ctx context.Context, in dto.AssignEPCRequest) (*dto.EPCResponse, error) {
	code := entity.NormalizeEPC(in.EPC)
	if code == "" {
		return nil, domain.Invalid("epc vacío o no hexadecimal")
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id es requerido")
	}
	p, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	err = uc.txRunner.RunEPC(ctx, func(epcRepo repository.EPCRepository) error {
		e, err := epcRepo.GetByEPC(ctx, code)
		if err != nil {
			return err
		}
		if e == nil {
			if err := epcRepo.Create(ctx, &entity.EPC{ID: uuid.New().String(), EPC: code, CreatedAt: now}); err != nil {
				return err
			}
		}
		return epcRepo.Assign(ctx, code, p.ID, now)
	})
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEPC, EntityID: code, Action: "assign", Details: code + " → " + p.Name, Err: err})
	if err != nil {
		return nil, err
	}
	e, err := uc.get(ctx, code)
	if err != nil {
		return nil, err
	}
	uc.notify(code, tagInfo(e))
	return ToEPCResponse(e), nil
}

// Unassign desvincula la etiqueta de su producto.
func (uc *EPCUseCase) Unassign(ctx context.Context, raw string) (*dto.EPCResponse, error) {
	e, err := uc.get(ctx, raw)
	if err != nil {
		return nil, err
	}
	err = uc.repo.Unassign(ctx, e.EPC)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEPC, EntityID: e.ID, Action: "unassign", Details: e.EPC, Err: err})
	if err != nil {
		return nil, err
	}
	e.ProductID, e.ProductName, e.ProductSKU, e.CategoryName, e.AssignedAt = "", "", "", "", nil
	uc.notify(e.EPC, domrfid.TagInfo{})
	return ToEPCResponse(e), nil
}

// Lookup consulta varias etiquetas; las no registradas vuelven con IsAssigned=false y sin ID.
func (uc *EPCUseCase) Lookup(ctx context.Context, raws []string) ([]dto.EPCResponse, error) {
	codes := make([]string, 0, len(raws))
	for _, r := range raws {
		if c := entity.NormalizeEPC(r); c != "" {
			codes = append(codes, c)
		}
	}
	if len(codes) == 0 {
		return nil, domain.Invalid("no hay epcs válidos")
	}
	found, err := uc.repo.Lookup(ctx, codes)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EPCResponse, 0, len(codes))
	for _, c := range codes {
		if e, ok := found[c]; ok {
			out = append(out, *ToEPCResponse(e))
			continue
		}
		out = append(out, dto.EPCResponse{EPC: c})
	}
	return out, nil
}

func (uc *EPCUseCase) notify(epc string, info domrfid.TagInfo) {
	if uc.observer != nil {
		uc.observer.TagChanged(epc, info)
	}
}

func tagInfo(e *entity.EPC) domrfid.TagInfo {
	if e == nil {
		return domrfid.TagInfo{}
	}
	return domrfid.TagInfo{
		Assigned:     e.IsAssigned(),
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		ProductSKU:   e.ProductSKU,
		CategoryName: e.CategoryName,
	}
}

// ToEPCResponse mapea la etiqueta a la respuesta HTTP.
func ToEPCResponse(e *entity.EPC) *dto.EPCResponse {
	out := &dto.EPCResponse{
		ID:         e.ID,
		EPC:        e.EPC,
		IsAssigned: e.IsAssigned(),
		AssignedAt: e.AssignedAt,
		CreatedAt:  e.CreatedAt,
	}
	if e.IsAssigned() {
		out.Product = &dto.EPCProductResponse{ID: e.ProductID, Name: e.ProductName, SKU: e.ProductSKU, Category: e.CategoryName}
	}
	return out
}
