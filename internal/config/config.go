package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/session-token-service/internal/auth"
)

// Revocation backends.
const (
	RevocationBackendMemory   = "memory"
	RevocationBackendRedis    = "redis"
	RevocationBackendPostgres = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Revocation RevocationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	ApplicationName string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	PoolSize      int
	DialTimeoutMS int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing parameters. When AdminEmail is set an
// ADMIN account is seeded at startup.
type AuthConfig struct {
	JWTSecret       string
	TokenLifetimeMS int64
	BcryptCost      int
	AdminName       string
	AdminEmail      string
	AdminPassword   string
}

// RevocationConfig selects and tunes the logout store.
type RevocationConfig struct {
	Backend              string
	TimeoutMS            int
	PurgeIntervalSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	lifetime, err := strconv.ParseInt(getEnv("AUTH_TOKEN_LIFETIME_MS", "3600000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_LIFETIME_MS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "session-token-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			ApplicationName: getEnv("POSTGRES_APPLICATION_NAME", "session-token-service"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			PoolSize:      getEnvAsInt("REDIS_POOL_SIZE", 0),
			DialTimeoutMS: getEnvAsInt("REDIS_DIAL_TIMEOUT_MS", 2000),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
			TokenLifetimeMS: lifetime,
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminName:       getEnv("AUTH_ADMIN_NAME", "Administrator"),
			AdminEmail:      os.Getenv("AUTH_ADMIN_EMAIL"),
			AdminPassword:   os.Getenv("AUTH_ADMIN_PASSWORD"),
		},
		Revocation: RevocationConfig{
			Backend:              getEnv("REVOCATION_BACKEND", RevocationBackendMemory),
			TimeoutMS:            getEnvAsInt("REVOCATION_TIMEOUT_MS", 500),
			PurgeIntervalSeconds: getEnvAsInt("REVOCATION_PURGE_INTERVAL_SECONDS", 300),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < auth.MinSecretBytes {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", auth.MinSecretBytes)
	}
	if c.Auth.AdminEmail != "" && c.Auth.AdminPassword == "" {
		return errors.New("AUTH_ADMIN_EMAIL requires AUTH_ADMIN_PASSWORD")
	}
	if c.Auth.TokenLifetimeMS <= 0 {
		return errors.New("AUTH_TOKEN_LIFETIME_MS must be positive")
	}
	switch c.Revocation.Backend {
	case RevocationBackendMemory, RevocationBackendRedis:
	case RevocationBackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("REVOCATION_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.Revocation.Backend)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenLifetime returns the configured token lifetime.
func (a AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(a.TokenLifetimeMS) * time.Millisecond
}

// Timeout bounds a single revocation store call.
func (r RevocationConfig) Timeout() time.Duration {
	if r.TimeoutMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// DialTimeout bounds connecting to Redis.
func (r RedisConfig) DialTimeout() time.Duration {
	if r.DialTimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(r.DialTimeoutMS) * time.Millisecond
}

// PurgeInterval returns how often expired revocations are removed.
func (r RevocationConfig) PurgeInterval() time.Duration {
	if r.PurgeIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(r.PurgeIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
