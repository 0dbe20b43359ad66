package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados y cargos de empleado.
const (
	EmployeeWorking = "working"
	EmployeeQuit    = "quit"

	PositionEmployee         = "employee"
	PositionParkingAttendant = "parking attendant"
)

// Employee empleado de la tienda. BasicSalary es por hora.
type Employee struct {
	ID          string
	Name        string
	Email       string
	Address     string
	PhoneNumber string
	EntryDate   time.Time
	BasicSalary decimal.Decimal
	Position    string
	Status      string
	SearchKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
