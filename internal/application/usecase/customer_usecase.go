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

// CustomerUseCase casos de uso para clientes. Los puntos solo los modifica la facturación.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	activity *activity.Recorder
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, rec *activity.Recorder) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, activity: rec}
}

// NormalizePhone quita espacios, guiones y puntos de un teléfono.
func NormalizePhone(s string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(strings.TrimSpace(s))
}

func validateCustomer(in *dto.CustomerRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = NormalizePhone(in.PhoneNumber)
	if in.Name == "" || in.PhoneNumber == "" {
		return domain.Invalid("name y phonenumber son requeridos")
	}
	return nil
}

// Create crea un cliente con 0 puntos. El teléfono es único.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByPhone(ctx, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Customer{
		ID:          uuid.New().String(),
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		SearchKey:   textsearch.Key(in.Name, in.PhoneNumber),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.repo.Create(ctx, c)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCustomer, EntityID: c.ID, Action: "create", Details: c.PhoneNumber, Err: err})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return ToCustomerResponse(c), nil
}

// GetByPhone busca un cliente por teléfono (pantalla de ventas).
func (uc *CustomerUseCase) GetByPhone(ctx context.Context, phone string) (*dto.CustomerResponse, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, domain.Invalid("phonenumber es requerido")
	}
	c, err := uc.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return ToCustomerResponse(c), nil
}

// Update cambia nombre y teléfono.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(&in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.PhoneNumber != in.PhoneNumber {
		other, err := uc.repo.GetByPhone(ctx, in.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	c.Name, c.PhoneNumber = in.Name, in.PhoneNumber
	c.SearchKey = textsearch.Key(c.Name, c.PhoneNumber)
	c.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, c)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCustomer, EntityID: c.ID, Action: "update", Details: c.PhoneNumber, Err: err})
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(c), nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.CustomerListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina un cliente.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityCustomer, EntityID: id, Action: "delete", Details: c.PhoneNumber, Err: err})
	return err
}

// ToCustomerResponse mapea la entidad (incluye el nivel de fidelidad si vino en el JOIN).
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	out := &dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Point:       c.Points,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.LoyaltyDiscount != nil {
		out.LoyaltyDiscount = toLoyaltyResponse(c.LoyaltyDiscount)
	}
	return out
}
