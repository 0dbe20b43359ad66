package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/jwt"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
	"github.com/jhoicas/tienda-rfid-api/pkg/password"
)

// resetTokenTTL vigencia del token que entrega VerifyOTP.
const resetTokenTTL = 10 * time.Minute

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// OTPConfig longitud y vigencia del código enviado por correo.
type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// AuthUseCase casos de uso de autenticación: login y recuperación de contraseña por OTP.
type AuthUseCase struct {
	userRepo repository.UserRepository
	otp      OTPStore
	mailer   Mailer
	hasher   password.Hasher
	jwtCfg   JWTConfig
	otpCfg   OTPConfig
	activity *activity.Recorder
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, otp OTPStore, mailer Mailer, hasher password.Hasher, jwtCfg JWTConfig, otpCfg OTPConfig, rec *activity.Recorder, log *logger.Logger) *AuthUseCase {
	if otpCfg.Length <= 0 {
		otpCfg.Length = 6
	}
	if otpCfg.TTL <= 0 {
		otpCfg.TTL = 5 * time.Minute
	}
	return &AuthUseCase{
		userRepo: userRepo,
		otp:      otp,
		mailer:   mailer,
		hasher:   hasher,
		jwtCfg:   jwtCfg,
		otpCfg:   otpCfg,
		activity: rec,
		log:      log.Component("auth"),
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Una cuenta bloqueada recibe ErrForbidden aunque la contraseña sea correcta.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("email y password son requeridos")
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !uc.hasher.Compare(user.PasswordHash, in.Password) {
		return nil, domain.ErrUnauthorized
	}
	if user.AccountStatus != entity.AccountActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.activity.Record(activity.WithActor(ctx, user.ID), activity.Entry{EntityType: entity.ActivityUser, EntityID: user.ID, Action: "login"})
	return &dto.LoginResponse{Token: token, User: *usecase.ToUserResponse(user)}, nil
}

// ForgotPassword genera un OTP y lo envía al correo. Si el email no existe
// responde igual que si existiera, para no revelar cuentas registradas.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := normalizeEmail(in.Email)
	if email == "" {
		return domain.Invalid("email es requerido")
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Str("email", email).Msg("solicitud de OTP para email no registrado")
		return nil
	}
	code, err := generateOTP(uc.otpCfg.Length)
	if err != nil {
		return err
	}
	if err := uc.otp.Save(ctx, email, code, uc.otpCfg.TTL); err != nil {
		return fmt.Errorf("guardar otp: %w", err)
	}
	if err := uc.mailer.SendOTP(ctx, email, code, uc.otpCfg.TTL); err != nil {
		return fmt.Errorf("enviar otp: %w", err)
	}
	return nil
}

// VerifyOTP valida el código y devuelve un token de restablecimiento. El código es de un solo uso.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) (*dto.VerifyOTPResponse, error) {
	email := normalizeEmail(in.Email)
	code := strings.TrimSpace(in.OTP)
	if email == "" || code == "" {
		return nil, domain.Invalid("email y otp son requeridos")
	}
	stored, err := uc.otp.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, domain.ErrOTPInvalid
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrOTPInvalid
	}
	if err := uc.otp.Delete(ctx, email); err != nil {
		uc.log.Warn().Err(err).Str("email", email).Msg("no se pudo borrar el otp")
	}
	token, err := jwt.GenerateReset(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, resetTokenTTL)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyOTPResponse{ResetToken: token}, nil
}

// ResetPassword fija la nueva contraseña usando el token de VerifyOTP.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	if len(in.Password) < password.MinLength {
		return domain.Invalid("la contraseña debe tener al menos 6 caracteres")
	}
	if in.Password != in.ConfirmPassword {
		return domain.Invalid("las contraseñas no coinciden")
	}
	userID, err := jwt.ParseReset(uc.jwtCfg.Secret, in.ResetToken)
	if err != nil {
		return domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	err = uc.userRepo.UpdatePassword(ctx, user.ID, hash)
	uc.activity.Record(activity.WithActor(ctx, user.ID), activity.Entry{EntityType: entity.ActivityUser, EntityID: user.ID, Action: "reset_password", Err: err})
	return err
}

// generateOTP código numérico de n dígitos.
func generateOTP(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
