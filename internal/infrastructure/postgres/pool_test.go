package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/pkg/config"
)

func TestPoolConfigFrom(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secreto", DBName: "tienda", SSLMode: "disable",
		MaxConns: 10, MinConns: 3,
	}
	pc, err := poolConfigFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "tienda", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFrom_MinMayorQueMaxSeIgnora(t *testing.T) {
	pc, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://app@db:5432/tienda", MaxConns: 4, MinConns: 9})
	require.NoError(t, err)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(0), pc.MinConns)
}

func TestPoolConfigFrom_DSNInvalido(t *testing.T) {
	_, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
