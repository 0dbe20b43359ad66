package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Estados de cuenta.
const (
	AccountActive = "active"
	AccountBlock  = "block"
)

// User cuenta de acceso al panel. Puede estar vinculada a un Employee.
type User struct {
	ID            string
	Email         string // único
	FirstName     string
	LastName      string
	PasswordHash  string // bcrypt
	Role          string
	AccountStatus string
	EmployeeID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName nombre para mostrar.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
