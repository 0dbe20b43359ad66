// Package redis guarda los códigos OTP de recuperación de contraseña con expiración nativa.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-rfid-api/internal/application/auth"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
)

const keyPrefix = "otp:"

var _ auth.OTPStore = (*OTPStore)(nil)

// OTPStore implementa auth.OTPStore sobre Redis (SET con TTL).
type OTPStore struct {
	rdb goredis.Cmdable
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

func NewOTPStore(rdb goredis.Cmdable) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func otpKey(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Save reemplaza cualquier código anterior del mismo email.
func (s *OTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, otpKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis: leer otp: %w", err)
	}
	return code, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("redis: borrar otp: %w", err)
	}
	return nil
}
