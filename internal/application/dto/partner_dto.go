package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phonenumber" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phonenumber"`
	Address     string    `json:"address"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CustomerRequest entrada para crear o actualizar un cliente. Los puntos solo cambian por facturas.
type CustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phonenumber" validate:"required"`
}

// CustomerResponse salida de un cliente con su nivel de fidelidad vigente.
type CustomerResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	PhoneNumber     string                   `json:"phonenumber"`
	Point           int                      `json:"point"`
	LoyaltyDiscount *LoyaltyDiscountResponse `json:"loyalty_discount,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// EmployeeRequest entrada para crear o actualizar un empleado.
type EmployeeRequest struct {
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"required,email"`
	Address     string          `json:"address" validate:"required"`
	PhoneNumber string          `json:"phonenumber" validate:"required"`
	EntryDate   time.Time       `json:"entry_date"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Position    string          `json:"position" validate:"oneof=employee 'parking attendant'"`
	Status      string          `json:"status" validate:"omitempty,oneof=working quit"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	PhoneNumber string          `json:"phonenumber"`
	EntryDate   time.Time       `json:"entry_date"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	Position    string          `json:"position"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EmployeeListResponse lista paginada de empleados.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
