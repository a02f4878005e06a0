package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	CacheBackend  string

	JWTSecret     string
	TokenLifespan time.Duration

	HTTPPort        string
	OperatorWorkers int
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"postgres_address":    "localhost",
	"postgres_port":       "5433",
	"postgres_db":         "postgres",
	"postgres_username":   "postgres",
	"postgres_password":   "testpassword",
	"redis_address":       "localhost:6379",
	"redis_password":      "",
	"redis_db":            0,
	"cache_backend":       CacheBackendRedis,
	"jwt_secret":          "finance-tracker-dev-secret",
	"token_hour_lifespan": 24,
	"http_port":           "9446",
	"operator_workers":    1,
}

// ProcessEnvironmentVariables builds the Config from defaults, an optional
// YAML file named by CONFIG_FILE, and finally the process environment.
func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	return load(os.Getenv("CONFIG_FILE"))
}

func load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", configFile, err)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := Config{
		PostgresAddress:  k.String("postgres_address"),
		PostgresPort:     k.String("postgres_port"),
		PostgresDB:       k.String("postgres_db"),
		PostgresUsername: k.String("postgres_username"),
		PostgresPassword: k.String("postgres_password"),
		RedisAddress:     k.String("redis_address"),
		RedisPassword:    k.String("redis_password"),
		RedisDB:          k.Int("redis_db"),
		CacheBackend:     strings.ToLower(k.String("cache_backend")),
		JWTSecret:        k.String("jwt_secret"),
		TokenLifespan:    time.Duration(k.Int("token_hour_lifespan")) * time.Hour,
		HTTPPort:         k.String("http_port"),
		OperatorWorkers:  k.Int("operator_workers"),
	}

	if cfg.CacheBackend != CacheBackendRedis && cfg.CacheBackend != CacheBackendMemory {
		return nil, fmt.Errorf("config: unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}
	if cfg.TokenLifespan <= 0 {
		return nil, fmt.Errorf("config: TOKEN_HOUR_LIFESPAN must be positive")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be empty")
	}

	return &cfg, nil
}

// PostgresURL returns the lib/pq connection string for the configured database.
// Credentials are escaped, so passwords may contain any character.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
