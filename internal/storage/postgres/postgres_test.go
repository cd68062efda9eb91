package postgres

import (
	"context"
	"testing"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "photogrid",
		Password: "secret",
		Name:     "gallery",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=photogrid password=secret dbname=gallery sslmode=disable",
		DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
