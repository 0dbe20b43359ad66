// Package mail envía los códigos OTP por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/tienda-rfid-api/internal/application/auth"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

var _ auth.Mailer = (*Mailer)(nil)

// Mailer implementa auth.Mailer. Sin host SMTP el código solo se registra en el log.
type Mailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    *logger.Logger
}

func NewMailer(cfg config.SMTPConfig, log *logger.Logger) *Mailer {
	m := &Mailer{cfg: cfg, log: log.Component("mail")}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

func (m *Mailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	if m.dialer == nil {
		m.log.Warn().Str("to", to).Str("code", code).Msg("SMTP no configurado; código OTP solo en log")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Código para restablecer tu contraseña")
	msg.SetBody("text/plain", otpBody(code, ttl))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar otp: %w", err)
	}
	m.log.Info().Str("to", to).Msg("código OTP enviado")
	return nil
}

func otpBody(code string, ttl time.Duration) string {
	return fmt.Sprintf("Tu código de verificación es %s.\nVence en %d minutos. Si no lo solicitaste, ignora este mensaje.",
		code, int(ttl.Minutes()))
}
