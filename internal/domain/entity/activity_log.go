package entity

import "time"

// Tipos de entidad auditada (pestañas del registro de actividad).
const (
	ActivityProduct    = "product"
	ActivityCategory   = "category"
	ActivityEPC        = "epc"
	ActivityInvoice    = "invoice"
	ActivityImportNote = "import_note"
	ActivityUser       = "user"
	ActivityPromotion  = "promotion"
	ActivityLoyalty    = "loyalty"
	ActivityCustomer   = "customer"
	ActivitySupplier   = "supplier"
	ActivityEmployee   = "employee"
)

// Resultado de la acción auditada.
const (
	ActivitySuccess = "success"
	ActivityFailed  = "failed"
)

// IsValidActivityEntity indica si t es una pestaña conocida.
func IsValidActivityEntity(t string) bool {
	switch t {
	case ActivityProduct, ActivityCategory, ActivityEPC, ActivityInvoice, ActivityImportNote,
		ActivityUser, ActivityPromotion, ActivityLoyalty, ActivityCustomer, ActivitySupplier, ActivityEmployee:
		return true
	}
	return false
}

// ActivityLog entrada de auditoría.
type ActivityLog struct {
	ID         string
	EntityType string
	EntityID   string
	Action     string // create, update, delete, assign, complete, cancel...
	Status     string
	Details    string
	UserID     string
	Timestamp  time.Time
}
