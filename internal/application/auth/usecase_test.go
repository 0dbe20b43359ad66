package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/jwt"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
	"github.com/jhoicas/tienda-rfid-api/pkg/password"
)

const testSecret = "secreto-de-prueba"

type fakeUserRepo struct {
	users     map[string]*entity.User
	passwords map[string]string
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}, passwords: map[string]string{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(context.Context, *entity.User) error { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.passwords[id] = hash
	return nil
}
func (f *fakeUserRepo) UpdateStatus(context.Context, string, string) error { return nil }
func (f *fakeUserRepo) List(context.Context, repository.ListFilter) ([]*entity.User, int, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) Delete(context.Context, string) error { return nil }

type memOTP struct{ codes map[string]string }

func (m *memOTP) Save(_ context.Context, email, code string, _ time.Duration) error {
	m.codes[email] = code
	return nil
}
func (m *memOTP) Get(_ context.Context, email string) (string, error) { return m.codes[email], nil }
func (m *memOTP) Delete(_ context.Context, email string) error {
	delete(m.codes, email)
	return nil
}

type captureMailer struct{ sent map[string]string }

func (c *captureMailer) SendOTP(_ context.Context, to, code string, _ time.Duration) error {
	c.sent[to] = code
	return nil
}

func setup(t *testing.T, status string) (*AuthUseCase, *fakeUserRepo, *memOTP, *captureMailer) {
	t.Helper()
	h := password.Hasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secreto1")
	require.NoError(t, err)
	repo := newFakeUserRepo(&entity.User{
		ID: "u-1", Email: "ana@tienda.com", FirstName: "Ana", PasswordHash: hash,
		Role: entity.RoleAdmin, AccountStatus: status,
	})
	otp := &memOTP{codes: map[string]string{}}
	mail := &captureMailer{sent: map[string]string{}}
	uc := NewAuthUseCase(repo, otp, mail, h,
		JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"},
		OTPConfig{Length: 6, TTL: time.Minute}, nil, logger.Nop())
	return uc, repo, otp, mail
}

func TestLogin(t *testing.T) {
	uc, _, _, _ := setup(t, entity.AccountActive)
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: " ANA@tienda.com ", Password: "secreto1"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.Equal(t, "ana@tienda.com", resp.User.Email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaBloqueada(t *testing.T) {
	uc, _, _, _ := setup(t, entity.AccountBlock)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecuperacionCompleta(t *testing.T) {
	uc, repo, otp, mail := setup(t, entity.AccountActive)
	ctx := context.Background()

	require.NoError(t, uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "ana@tienda.com"}))
	code := mail.sent["ana@tienda.com"]
	require.Len(t, code, 6)
	assert.Equal(t, code, otp.codes["ana@tienda.com"])

	_, err := uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@tienda.com", OTP: "xxxxxx"})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)

	out, err := uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: "ana@tienda.com", OTP: code})
	require.NoError(t, err)
	assert.Empty(t, otp.codes, "el código es de un solo uso")

	// El token de restablecimiento no sirve como sesión.
	_, _, err = jwt.Parse(testSecret, out.ResetToken)
	assert.Error(t, err)

	err = uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: out.ResetToken, Password: "nueva1", ConfirmPassword: "distinta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: out.ResetToken, Password: "nueva12", ConfirmPassword: "nueva12"}))
	assert.True(t, password.Default().Compare(repo.passwords["u-1"], "nueva12"))
}

func TestForgotPassword_EmailDesconocido(t *testing.T) {
	uc, _, otp, mail := setup(t, entity.AccountActive)
	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "nadie@tienda.com"}))
	assert.Empty(t, mail.sent)
	assert.Empty(t, otp.codes)
}

func TestResetPassword_TokenDeSesionRechazado(t *testing.T) {
	uc, _, _, _ := setup(t, entity.AccountActive)
	session, err := jwt.Generate(testSecret, "u-1", entity.RoleAdmin, "test", 5)
	require.NoError(t, err)
	err = uc.ResetPassword(context.Background(), dto.ResetPasswordRequest{ResetToken: session, Password: "nueva12", ConfirmPassword: "nueva12"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
