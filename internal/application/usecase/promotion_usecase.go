package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
)

var maxPercent = decimal.NewFromInt(100)

// validPercent 0 < d <= 100.
func validPercent(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThanOrEqual(maxPercent)
}

// PromotionUseCase casos de uso de códigos promocionales. El estado se calcula al leer.
type PromotionUseCase struct {
	repo     repository.PromotionRepository
	activity *activity.Recorder
	now      func() time.Time
}

// NewPromotionUseCase construye el caso de uso.
func NewPromotionUseCase(repo repository.PromotionRepository, rec *activity.Recorder) *PromotionUseCase {
	return &PromotionUseCase{repo: repo, activity: rec, now: time.Now}
}

func validatePromotion(in *dto.PromotionRequest) error {
	in.Name = strings.ToUpper(strings.TrimSpace(in.Name))
	if in.Name == "" {
		return domain.Invalid("name es requerido")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return domain.Invalid("start_time y end_time son requeridos")
	}
	if !in.EndTime.After(in.StartTime) {
		return domain.Invalid("end_time debe ser posterior a start_time")
	}
	if !validPercent(in.Discount) {
		return domain.Invalid("discount debe estar entre 0 y 100")
	}
	return nil
}

// Create crea una promoción. El código (name) se guarda en mayúsculas y es único.
func (uc *PromotionUseCase) Create(ctx context.Context, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	if err := validatePromotion(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	p := &entity.Promotion{
		ID:        uuid.New().String(),
		Name:      in.Name,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Discount:  in.Discount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.repo.Create(ctx, p)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityPromotion, EntityID: p.ID, Action: "create", Details: p.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// GetByID obtiene una promoción.
func (uc *PromotionUseCase) GetByID(ctx context.Context, id string) (*dto.PromotionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(p), nil
}

// GetByCode valida un código en caja: 404 si no existe, ErrPromotionInactive si no está vigente.
func (uc *PromotionUseCase) GetByCode(ctx context.Context, code string) (*dto.PromotionResponse, error) {
	p, err := uc.ActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// ActiveByCode devuelve la entidad si el código existe y está Active.
func (uc *PromotionUseCase) ActiveByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.Invalid("código de promoción vacío")
	}
	p, err := uc.repo.GetByName(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.StatusAt(uc.now()) != entity.PromotionActive {
		return nil, domain.ErrPromotionInactive
	}
	return p, nil
}

// Update reemplaza los datos de la promoción.
func (uc *PromotionUseCase) Update(ctx context.Context, id string, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	if err := validatePromotion(&in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Name != in.Name {
		other, err := uc.repo.GetByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	p.Name, p.StartTime, p.EndTime, p.Discount = in.Name, in.StartTime, in.EndTime, in.Discount
	p.UpdatedAt = uc.now()
	err = uc.repo.Update(ctx, p)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityPromotion, EntityID: p.ID, Action: "update", Details: p.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// List lista promociones; Status filtra por estado calculado (Not Applied, Active, Expired).
func (uc *PromotionUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.PromotionListResponse, error) {
	f := listFilter(p)
	switch f.Status {
	case "", entity.PromotionNotApplied, entity.PromotionActive, entity.PromotionExpired:
	default:
		return nil, domain.Invalid("status inválido: " + f.Status)
	}
	// El estado depende de la hora: el repositorio lo evalúa contra f.From.
	now := uc.now()
	f.From = &now
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PromotionResponse, 0, len(list))
	for _, pr := range list {
		items = append(items, *uc.toResponse(pr))
	}
	return &dto.PromotionListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina una promoción.
func (uc *PromotionUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityPromotion, EntityID: id, Action: "delete", Details: p.Name, Err: err})
	return err
}

func (uc *PromotionUseCase) toResponse(p *entity.Promotion) *dto.PromotionResponse {
	return &dto.PromotionResponse{
		ID:        p.ID,
		Name:      p.Name,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Discount:  p.Discount,
		Status:    p.StatusAt(uc.now()),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
