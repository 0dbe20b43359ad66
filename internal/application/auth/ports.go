package auth

import (
	"context"
	"time"
)

// OTPStore guarda el código de recuperación por email con expiración.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Get devuelve "" si no hay código vigente.
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// Mailer envía el código OTP al usuario.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
}
