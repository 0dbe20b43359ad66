package usecase

import (
	"context"
	"fmt"
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

// CategoryUseCase casos de uso CRUD para categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	activity *activity.Recorder
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, rec *activity.Recorder) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, activity: rec}
}

func validateCategory(in *dto.CategoryRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" {
		return domain.Invalid("name y description son requeridos")
	}
	return nil
}

// Create crea una categoría. El nombre es único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		SearchKey:   textsearch.Key(in.Name, in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.repo.Create(ctx, c)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCategory, EntityID: c.ID, Action: "create", Details: c.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// Update reemplaza nombre y descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := validateCategory(&in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !strings.EqualFold(c.Name, in.Name) {
		other, err := uc.repo.GetByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != c.ID {
			return nil, domain.ErrDuplicate
		}
	}
	c.Name = in.Name
	c.Description = in.Description
	c.SearchKey = textsearch.Key(c.Name, c.Description)
	c.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, c)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCategory, EntityID: c.ID, Action: "update", Details: c.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List lista categorías con paginación y búsqueda.
func (uc *CategoryUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.CategoryListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina una categoría sin productos asociados.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		err = fmt.Errorf("la categoría tiene %d productos: %w", n, domain.ErrConflict)
	} else {
		err = uc.repo.Delete(ctx, id)
	}
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCategory, EntityID: id, Action: "delete", Details: c.Name, Err: err})
	return err
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
