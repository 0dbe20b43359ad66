package usecase

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
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	activity *activity.Recorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, rec *activity.Recorder) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, activity: rec}
}

func validateSupplier(in *dto.SupplierRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.PhoneNumber == "" || in.Address == "" || in.Email == "" {
		return domain.Invalid("name, phonenumber, address y email son requeridos")
	}
	if !isEmail(in.Email) {
		return domain.Invalid("email inválido")
	}
	return nil
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := validateSupplier(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		Email:       in.Email,
		SearchKey:   textsearch.Key(in.Name, in.PhoneNumber, in.Email, in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.repo.Create(ctx, s)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivitySupplier, EntityID: s.ID, Action: "create", Details: s.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := validateSupplier(&in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name, s.PhoneNumber, s.Address, s.Email = in.Name, in.PhoneNumber, in.Address, in.Email
	s.SearchKey = textsearch.Key(s.Name, s.PhoneNumber, s.Email, s.Address)
	s.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, s)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivitySupplier, EntityID: s.ID, Action: "update", Details: s.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores.
func (uc *SupplierUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.SupplierListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivitySupplier, EntityID: id, Action: "delete", Details: s.Name, Err: err})
	return err
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		PhoneNumber: s.PhoneNumber,
		Address:     s.Address,
		Email:       s.Email,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
