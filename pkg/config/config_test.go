package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrisdamba/daytrip/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	os.Clearenv()

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "badger", cfg.Session.Backend)
	assert.Equal(t, ".daytrip", cfg.Session.Dir)
	assert.Equal(t, "", cfg.Session.Profile)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "daytrip", cfg.Database.Name)
	assert.Equal(t, 4, cfg.Database.MaxPoolConns)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 6, cfg.Payment.MaskBegin)
	assert.Equal(t, 11, cfg.Payment.MaskEnd)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "", cfg.Status.Address)
}

func TestNewConfigWithEnvVars(t *testing.T) {
	os.Clearenv()

	envVars := map[string]string{
		"DAYTRIP_API_URL": "https://daytrip.example.com/",
		"API_TIMEOUT":     "5s",
		"SESSION_BACKEND": "postgres",
		"SESSION_PROFILE": "kiosk-1",
		"POSTGRES_HOST":   "db.example.com",
		"MAX_CONNS":       "10",
		"CACHE_ENABLED":   "true",
		"REDIS_ADDR":      "cache:6379",
		"REDIS_DB":        "2",
		"CACHE_TTL":       "1m",
		"PAYMENT_PRIME":   "prime-x",
		"LOG_LEVEL":       "debug",
		"LOG_FORMAT":      "json",
		"STATUS_ADDR":     ":9090",
	}

	for k, v := range envVars {
		os.Setenv(k, v)
	}

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://daytrip.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "postgres", cfg.Session.Backend)
	assert.Equal(t, "kiosk-1", cfg.Session.Profile)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 10, cfg.Database.MaxPoolConns)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache:6379", cfg.Cache.Addr)
	assert.Equal(t, 2, cfg.Cache.DB)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "prime-x", cfg.Payment.Prime)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Status.Address)
}

func TestNewConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"invalid api timeout", "API_TIMEOUT", "soon"},
		{"invalid session backend", "SESSION_BACKEND", "sqlite"},
		{"invalid max conns", "MAX_CONNS", "many"},
		{"invalid cache ttl", "CACHE_TTL", "forever"},
		{"invalid redis db", "REDIS_DB", "first"},
		{"invalid mask", "CARD_MASK_BEGIN", "six"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv(tt.key, tt.val)

			cfg, err := config.NewConfig()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DAYTRIP_API_URL=http://from-file:8000\nLOG_LEVEL=warn\n"), 0o600))
	os.Setenv("LOG_LEVEL", "error")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file:8000", cfg.API.BaseURL)
	assert.Equal(t, "error", cfg.Log.Level)

	os.Clearenv()
	cfg, err = config.Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
}

func TestDatabaseDSN(t *testing.T) {
	dbConfig := config.DatabaseConfig{
		Host:         "localhost",
		Port:         "5432",
		Name:         "testdb",
		User:         "testuser",
		Password:     "testpass",
		MaxPoolConns: 50,
	}

	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpass pool_max_conns=50"
	assert.Equal(t, expected, dbConfig.DSN())
}
