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
	"github.com/jhoicas/tienda-rfid-api/pkg/password"
)

// UserUseCase administra las cuentas del panel (solo admin).
type UserUseCase struct {
	repo         repository.UserRepository
	employeeRepo repository.EmployeeRepository
	hasher       password.Hasher
	activity     *activity.Recorder
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, employeeRepo repository.EmployeeRepository, hasher password.Hasher, rec *activity.Recorder) *UserUseCase {
	return &UserUseCase{repo: repo, employeeRepo: employeeRepo, hasher: hasher, activity: rec}
}

func isValidRole(r string) bool {
	return r == entity.RoleAdmin || r == entity.RoleEmployee
}

func (uc *UserUseCase) checkEmployee(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	e, err := uc.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.Invalid("employee_id no existe")
	}
	return nil
}

// Create crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	if in.Email == "" || in.FirstName == "" {
		return nil, domain.Invalid("email y first_name son requeridos")
	}
	if !isEmail(in.Email) {
		return nil, domain.Invalid("email inválido")
	}
	if len(in.Password) < password.MinLength {
		return nil, domain.Invalid("la contraseña debe tener al menos 6 caracteres")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.Invalid("las contraseñas no coinciden")
	}
	if in.Role == "" {
		in.Role = entity.RoleEmployee
	}
	if !isValidRole(in.Role) {
		return nil, domain.Invalid("role inválido: " + in.Role)
	}
	if err := uc.checkEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:            uuid.New().String(),
		Email:         in.Email,
		FirstName:     in.FirstName,
		LastName:      strings.TrimSpace(in.LastName),
		PasswordHash:  hash,
		Role:          in.Role,
		AccountStatus: entity.AccountActive,
		EmployeeID:    in.EmployeeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.repo.Create(ctx, u)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityUser, EntityID: u.ID, Action: "create", Details: u.Email, Err: err})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(u), nil
}

// Update modifica nombre, rol o empleado vinculado.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, domain.Invalid("first_name no puede quedar vacío")
		}
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		if !isValidRole(*in.Role) {
			return nil, domain.Invalid("role inválido: " + *in.Role)
		}
		u.Role = *in.Role
	}
	if in.EmployeeID != nil {
		if err := uc.checkEmployee(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
		u.EmployeeID = *in.EmployeeID
	}
	u.UpdatedAt = time.Now()
	err = uc.repo.Update(ctx, u)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityUser, EntityID: u.ID, Action: "update", Details: u.Email, Err: err})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// ChangeStatus bloquea o reactiva una cuenta. Un admin no puede bloquearse a sí mismo.
func (uc *UserUseCase) ChangeStatus(ctx context.Context, id, status string) (*dto.UserResponse, error) {
	if status != entity.AccountActive && status != entity.AccountBlock {
		return nil, domain.Invalid("account_status inválido: " + status)
	}
	if status == entity.AccountBlock && activity.Actor(ctx) == id {
		return nil, domain.Invalid("no puede bloquear su propia cuenta")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	err = uc.repo.UpdateStatus(ctx, id, status)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityUser, EntityID: id, Action: "status_" + status, Details: u.Email, Err: err})
	if err != nil {
		return nil, err
	}
	u.AccountStatus = status
	return ToUserResponse(u), nil
}

// List lista usuarios (Status filtra active/block).
func (uc *UserUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.UserListResponse, error) {
	f := listFilter(p)
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: page(f, total)}, nil
}

// Delete elimina un usuario. No se permite borrar la propia cuenta.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if activity.Actor(ctx) == id {
		return domain.Invalid("no puede eliminar su propia cuenta")
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	err = uc.repo.Delete(ctx, id)
	uc.activity.Record(ctx, activity.Entry{EntityType: entity.ActivityUser, EntityID: id, Action: "delete", Details: u.Email, Err: err})
	return err
}

// ToUserResponse mapea la entidad sin el hash de la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		AccountStatus: u.AccountStatus,
		EmployeeID:    u.EmployeeID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
