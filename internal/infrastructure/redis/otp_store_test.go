package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestOTPKey_NormalizaEmail(t *testing.T) {
	assert.Equal(t, "otp:ana@tienda.com", otpKey("  Ana@Tienda.COM "))
}

func TestOTPStore_ServidorCaido(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	s := NewOTPStore(rdb)

	_, err := s.Get(context.Background(), "ana@tienda.com")
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), "ana@tienda.com", "123456", time.Minute))
}
