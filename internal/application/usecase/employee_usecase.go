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

// EmployeeUseCase casos de uso CRUD para empleados.
type EmployeeUseCase struct {
	repo     repository.EmployeeRepository
	activity *activity.Recorder
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository, rec *activity.Recorder) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo, activity: rec}
}

func validateEmployee(in *dto.EmployeeRequest) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.PhoneNumber = NormalizePhone(in.PhoneNumber)
	if in.Name == "" || in.Email == "" || in.Address == "" || in.PhoneNumber == "" {
		return domain.Invalid("name, email, address y phonenumber son requeridos")
	}
	if !isEmail(in.Email) {
		return domain.Invalid("email inválido")
	}
	if in.EntryDate.IsZero() {
		return domain.Invalid("entry_date es requerido")
	}
	if !in.BasicSalary.IsPositive() {
		return domain.Invalid("basic_salary debe ser mayor que 0")
	}
	if in.Position == "" {
		in.Position = entity.PositionEmployee
	}
	if in.Position != entity.PositionEmployee && in.Position != entity.PositionParkingAttendant {
		return domain.Invalid("position inválida: " + in.Position)
	}
	if in.Status == "" {
		in.Status = entity.EmployeeWorking
	}
	if in.Status != entity.EmployeeWorking && in.Status != entity.EmployeeQuit {
		return domain.Invalid("status inválido: " + in.Status)
	}
	return nil
}

// Create registra un empleado.
func (uc *EmployeeUseCase) Create(ctx context.Context, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validateEmployee(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	e := &entity.Employee{ID: uuid.New().String(), CreatedAt: now}
	applyEmployee(e, in, now)
	err := uc.repo.Create(ctx, e)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEmployee, EntityID: e.ID, Action: "create", Details: e.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

func applyEmployee(e *entity.Employee, in dto.EmployeeRequest, now time.Time) {
	e.Name = in.Name
	e.Email = in.Email
	e.Address = in.Address
	e.PhoneNumber = in.PhoneNumber
	e.EntryDate = in.EntryDate
	e.BasicSalary = in.BasicSalary
	e.Position = in.Position
	e.Status = in.Status
	e.SearchKey = textsearch.Key(in.Name, in.Email, in.PhoneNumber)
	e.UpdatedAt = now
}

// GetByID obtiene un empleado.
func (uc *EmployeeUseCase) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toEmployeeResponse(e), nil
}

// Update reemplaza los datos del empleado.
func (uc *EmployeeUseCase) Update(ctx context.Context, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := validateEmployee(&in); err != nil {
		return nil, err
	}
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	applyEmployee(e, in, time.Now())
	err = uc.repo.Update(ctx, e)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEmployee, EntityID: e.ID, Action: "update", Details: e.Name, Err: err})
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// List lista empleados (Status filtra working/quit).
func (uc *EmployeeUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.EmployeeListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEmployeeResponse(e))
	}
	return &dto.EmployeeListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina un empleado.
func (uc *EmployeeUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityEmployee, EntityID: id, Action: "delete", Details: e.Name, Err: err})
	return err
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Address:     e.Address,
		PhoneNumber: e.PhoneNumber,
		EntryDate:   e.EntryDate,
		BasicSalary: e.BasicSalary,
		Position:    e.Position,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
