package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Payment  PaymentConfig
	Log      LogConfig
	Status   StatusConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Backend string // badger | postgres
	Dir     string
	Profile string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxPoolConns int
}

type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type PaymentConfig struct {
	Prime     string
	MaskBegin int
	MaskEnd   int
}

type LogConfig struct {
	Level  string
	Format string
}

type StatusConfig struct {
	Address string
}

func (dc *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s pool_max_conns=%d",
		dc.Host,
		dc.Port,
		dc.Name,
		dc.User,
		dc.Password,
		dc.MaxPoolConns,
	)
}

// Load reads .env files (missing files are fine) and then builds the
// config. Variables already set in the process win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("env file %s: %w", f, err)
		}
	}
	return NewConfig()
}

func NewConfig() (*Config, error) {
	apiCfg, err := newAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("api config error: %w", err)
	}

	sessionCfg, err := newSessionConfig()
	if err != nil {
		return nil, fmt.Errorf("session config error: %w", err)
	}

	dbCfg, err := newDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database config error: %w", err)
	}

	cacheCfg, err := newCacheConfig()
	if err != nil {
		return nil, fmt.Errorf("cache config error: %w", err)
	}

	paymentCfg, err := newPaymentConfig()
	if err != nil {
		return nil, fmt.Errorf("payment config error: %w", err)
	}

	return &Config{
		API:      apiCfg,
		Session:  sessionCfg,
		Database: dbCfg,
		Cache:    cacheCfg,
		Payment:  paymentCfg,
		Log:      newLogConfig(),
		Status:   StatusConfig{Address: getEnvOrDefault("STATUS_ADDR", "")},
	}, nil
}

func newAPIConfig() (APIConfig, error) {
	timeout, err := getDurationFromEnv("API_TIMEOUT", "15s")
	if err != nil {
		return APIConfig{}, fmt.Errorf("timeout parse error: %w", err)
	}

	return APIConfig{
		BaseURL: strings.TrimRight(getEnvOrDefault("DAYTRIP_API_URL", "http://localhost:8000"), "/"),
		Timeout: timeout,
	}, nil
}

func newSessionConfig() (SessionConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("SESSION_BACKEND", "badger"))
	if backend != "badger" && backend != "postgres" {
		return SessionConfig{}, fmt.Errorf("unknown session backend %q", backend)
	}

	return SessionConfig{
		Backend: backend,
		Dir:     getEnvOrDefault("SESSION_DIR", ".daytrip"),
		Profile: getEnvOrDefault("SESSION_PROFILE", ""),
	}, nil
}

func newDatabaseConfig() (DatabaseConfig, error) {
	maxConns, err := strconv.Atoi(getEnvOrDefault("MAX_CONNS", "4"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("max connections parse error: %w", err)
	}

	return DatabaseConfig{
		Host:         getEnvOrDefault("POSTGRES_HOST", "localhost"),
		Port:         getEnvOrDefault("POSTGRES_PORT", "5432"),
		Name:         getEnvOrDefault("POSTGRES_DB", "daytrip"),
		User:         getEnvOrDefault("POSTGRES_USER", "postgres"),
		Password:     getEnvOrDefault("POSTGRES_PASSWORD", ""),
		MaxPoolConns: maxConns,
	}, nil
}

func newCacheConfig() (CacheConfig, error) {
	ttl, err := getDurationFromEnv("CACHE_TTL", "10m")
	if err != nil {
		return CacheConfig{}, fmt.Errorf("ttl parse error: %w", err)
	}

	db, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return CacheConfig{}, fmt.Errorf("redis db parse error: %w", err)
	}

	return CacheConfig{
		Enabled:  getEnvOrDefault("CACHE_ENABLED", "false") == "true",
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       db,
		TTL:      ttl,
		Prefix:   getEnvOrDefault("CACHE_PREFIX", "daytrip"),
	}, nil
}

func newPaymentConfig() (PaymentConfig, error) {
	begin, err := strconv.Atoi(getEnvOrDefault("CARD_MASK_BEGIN", "6"))
	if err != nil {
		return PaymentConfig{}, fmt.Errorf("mask begin parse error: %w", err)
	}

	end, err := strconv.Atoi(getEnvOrDefault("CARD_MASK_END", "11"))
	if err != nil {
		return PaymentConfig{}, fmt.Errorf("mask end parse error: %w", err)
	}

	return PaymentConfig{
		Prime:     getEnvOrDefault("PAYMENT_PRIME", ""),
		MaskBegin: begin,
		MaskEnd:   end,
	}, nil
}

func newLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationFromEnv(key, defaultValue string) (time.Duration, error) {
	return time.ParseDuration(getEnvOrDefault(key, defaultValue))
}
