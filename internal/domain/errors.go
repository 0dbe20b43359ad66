package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrPromotionInactive  = errors.New("la promoción no está vigente")
	ErrOTPInvalid         = errors.New("código OTP inválido o expirado")
	ErrReaderUnavailable  = errors.New("lector RFID no disponible")
	ErrStorageDisabled    = errors.New("almacenamiento de imágenes no configurado")
)

// ValidationError acompaña a ErrInvalidInput con un mensaje para el cliente.
// errors.Is(err, ErrInvalidInput) sigue funcionando.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
