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

// LoyaltyUseCase niveles de fidelidad y norma monetaria (valor de un punto).
type LoyaltyUseCase struct {
	repo     repository.LoyaltyDiscountRepository
	normRepo repository.MonetaryNormRepository
	activity *activity.Recorder
}

// NewLoyaltyUseCase construye el caso de uso.
func NewLoyaltyUseCase(repo repository.LoyaltyDiscountRepository, normRepo repository.MonetaryNormRepository, rec *activity.Recorder) *LoyaltyUseCase {
	return &LoyaltyUseCase{repo: repo, normRepo: normRepo, activity: rec}
}

func validateLoyalty(in *dto.LoyaltyDiscountRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Invalid("name es requerido")
	}
	if in.RequiredPoints < 0 {
		return domain.Invalid("required_points no puede ser negativo")
	}
	if !validPercent(in.Discount) {
		return domain.Invalid("discount debe estar entre 0 y 100")
	}
	if in.Status == "" {
		in.Status = entity.LoyaltyActive
	}
	if in.Status != entity.LoyaltyActive && in.Status != entity.LoyaltyPaused {
		return domain.Invalid("status inválido: " + in.Status)
	}
	return nil
}

// Create crea un nivel de fidelidad.
func (uc *LoyaltyUseCase) Create(ctx context.Context, in dto.LoyaltyDiscountRequest) (*dto.LoyaltyDiscountResponse, error) {
	if err := validateLoyalty(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	ld := &entity.LoyaltyDiscount{
		ID:             uuid.New().String(),
		Name:           in.Name,
		RequiredPoints: in.RequiredPoints,
		Discount:       in.Discount,
		Status:         in.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.repo.Create(ctx, ld)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityLoyalty, EntityID: ld.ID, Action: "create", Details: ld.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toLoyaltyResponse(ld), nil
}

// GetByID obtiene un nivel.
func (uc *LoyaltyUseCase) GetByID(ctx context.Context, id string) (*dto.LoyaltyDiscountResponse, error) {
	ld, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ld == nil {
		return nil, domain.ErrNotFound
	}
	return toLoyaltyResponse(ld), nil
}

// Update reemplaza los datos del nivel (incluido pausar/activar).
func (uc *LoyaltyUseCase) Update(ctx context.Context, id string, in dto.LoyaltyDiscountRequest) (*dto.LoyaltyDiscountResponse, error) {
	if err := validateLoyalty(&in); err != nil {
		return nil, err
	}
	ld, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ld == nil {
		return nil, domain.ErrNotFound
	}
	ld.Name, ld.RequiredPoints, ld.Discount, ld.Status = in.Name, in.RequiredPoints, in.Discount, in.Status
	ld.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, ld)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityLoyalty, EntityID: ld.ID, Action: "update", Details: ld.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toLoyaltyResponse(ld), nil
}

// List lista niveles ordenados por puntos requeridos.
func (uc *LoyaltyUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.LoyaltyDiscountListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoyaltyDiscountResponse, 0, len(list))
	for _, ld := range list {
		items = append(items, *toLoyaltyResponse(ld))
	}
	return &dto.LoyaltyDiscountListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina un nivel. Los clientes que lo tenían quedan sin nivel (FK ON DELETE SET NULL).
func (uc *LoyaltyUseCase) Delete(ctx context.Context, id string) error {
	ld, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ld == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityLoyalty, EntityID: id, Action: "delete", Details: ld.Name, Err: err})
	return err
}

// GetNorm devuelve la norma monetaria vigente (ErrNotFound si no se configuró).
func (uc *LoyaltyUseCase) GetNorm(ctx context.Context) (*dto.MonetaryNormResponse, error) {
	n, err := uc.normRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.MonetaryNormResponse{MoneyPerPoint: n.MoneyPerPoint, UpdatedAt: n.UpdatedAt}, nil
}

// UpdateNorm fija cuánto dinero equivale a un punto.
func (uc *LoyaltyUseCase) UpdateNorm(ctx context.Context, moneyPerPoint decimal.Decimal) (*dto.MonetaryNormResponse, error) {
	if !moneyPerPoint.IsPositive() {
		return nil, domain.Invalid("money_per_point debe ser mayor que 0")
	}
	n, err := uc.normRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = &entity.MonetaryNorm{ID: uuid.New().String()}
	}
	n.MoneyPerPoint = moneyPerPoint
	n.UpdatedAt = time.Now()
	err = uc.normRepo.Upsert(ctx, n)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityLoyalty, EntityID: n.ID, Action: "update_norm", Details: moneyPerPoint.String(), Err: err})
	if err != nil {
		return nil, err
	}
	return &dto.MonetaryNormResponse{MoneyPerPoint: n.MoneyPerPoint, UpdatedAt: n.UpdatedAt}, nil
}

func toLoyaltyResponse(ld *entity.LoyaltyDiscount) *dto.LoyaltyDiscountResponse {
	return &dto.LoyaltyDiscountResponse{
		ID:             ld.ID,
		Name:           ld.Name,
		RequiredPoints: ld.RequiredPoints,
		Discount:       ld.Discount,
		Status:         ld.Status,
		CreatedAt:      ld.CreatedAt,
		UpdatedAt:      ld.UpdatedAt,
	}
}
