package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Payroll  PayrollConfig
	Authz    AuthzConfig
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// RedisConfig is optional. Without an address the per-employee lock is
// process-local.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type PayrollConfig struct {
	Workers      int
	RunTimeout   time.Duration
	LockTTL      time.Duration
	LockWait     time.Duration
	Cron         string
	CurrencyUnit decimal.Decimal
}

type AuthzConfig struct {
	Mode       string
	PolicyFile string
}

func Load() (*Config, error) {
	// .env is optional; the process environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", DriverPostgres),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrm_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Addr:      getEnv("REDIS_ADDR", ""),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        redisDB,
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "hrm:"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	workers, err := getEnvInt("PAYROLL_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	runTimeout, err := getEnvDuration("PAYROLL_RUN_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	lockTTL, err := getEnvDuration("PAYROLL_LOCK_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	lockWait, err := getEnvDuration("PAYROLL_LOCK_WAIT", 2*time.Second)
	if err != nil {
		return nil, err
	}
	unit, err := decimal.NewFromString(getEnv("PAYROLL_CURRENCY_UNIT", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_CURRENCY_UNIT: %w", err)
	}

	config.Payroll = PayrollConfig{
		Workers:      workers,
		RunTimeout:   runTimeout,
		LockTTL:      lockTTL,
		LockWait:     lockWait,
		Cron:         getEnv("PAYROLL_CRON", "0 2 1 * *"),
		CurrencyUnit: unit,
	}

	// Authorization configuration
	config.Authz = AuthzConfig{
		Mode:       getEnv("AUTHZ_MODE", "enforce"),
		PolicyFile: getEnv("AUTHZ_POLICY_FILE", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.Payroll.RunTimeout <= 0 {
		return fmt.Errorf("PAYROLL_RUN_TIMEOUT must be positive")
	}
	if c.Payroll.LockTTL <= 0 {
		return fmt.Errorf("PAYROLL_LOCK_TTL must be positive")
	}
	if !c.Payroll.CurrencyUnit.IsPositive() {
		return fmt.Errorf("PAYROLL_CURRENCY_UNIT must be positive")
	}
	if c.Payroll.Cron != "" {
		if _, err := cron.ParseStandard(c.Payroll.Cron); err != nil {
			return fmt.Errorf("invalid PAYROLL_CRON: %w", err)
		}
	}
	switch c.Authz.Mode {
	case "enforce", "shadow", "disabled":
	default:
		return fmt.Errorf("AUTHZ_MODE must be enforce, shadow or disabled")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
