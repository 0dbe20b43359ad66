package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

func TestSendOTP_SinSMTPSoloLog(t *testing.T) {
	var buf bytes.Buffer
	m := NewMailer(config.SMTPConfig{}, logger.New(logger.Config{Env: "production", Out: &buf}))

	require.NoError(t, m.SendOTP(context.Background(), "ana@tienda.com", "482913", 5*time.Minute))
	assert.Contains(t, buf.String(), `"code":"482913"`)
	assert.Contains(t, buf.String(), `"component":"mail"`)
}

func TestOTPBody(t *testing.T) {
	assert.Contains(t, otpBody("123456", 5*time.Minute), "123456")
	assert.Contains(t, otpBody("123456", 5*time.Minute), "5 minutos")
}
