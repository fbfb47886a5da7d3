package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service. It is loaded once
// at startup and never mutated afterwards.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name             string
	Env              string
	Host             string
	Port             string
	Version          string
	RequestTimeoutMs int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds message broker endpoints.
type KafkaConfig struct {
	Brokers       []string
	ClientID      string
	ConsumerGroup string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	CookieName      string
	BcryptCost      int
}

// RateLimitConfig defines the global fixed-window rate limit plus the
// stricter budget applied to login attempts.
type RateLimitConfig struct {
	WindowMs int
	Max      int
	LoginMax int
}

// Load reads configuration from environment variables, applying defaults
// where possible. Missing values for DATABASE_URL, REDIS_ADDR and
// AUTH_JWT_SECRET are startup errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn, err := requireEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	redisAddr, err := requireEnv("REDIS_ADDR")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := requireEnv("AUTH_JWT_SECRET")
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:             getEnv("APP_NAME", "secure-user-service"),
			Env:              getEnv("APP_ENV", "development"),
			Host:             getEnv("APP_HOST", "0.0.0.0"),
			Port:             getEnv("APP_PORT", "4000"),
			Version:          getEnv("APP_VERSION", "dev"),
			RequestTimeoutMs: getEnvAsInt("REQUEST_TIMEOUT_MS", 30000),
		},
		Postgres: PostgresConfig{
			DSN:            dsn,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "secure-user-service"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "secure-user-service-group"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:       jwtSecret,
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 10080),
			CookieName:      getEnv("AUTH_COOKIE_NAME", "token"),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			WindowMs: getEnvAsInt("RATE_LIMIT_WINDOW_MS", 60000),
			Max:      getEnvAsInt("RATE_LIMIT_MAX", 100),
			LoginMax: getEnvAsInt("RATE_LIMIT_LOGIN_MAX", 10),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutMs) * time.Millisecond
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Window returns the rate limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMs) * time.Millisecond
}

// TokenTTL returns the credential lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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
