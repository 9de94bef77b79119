package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:5173"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig is loaded once at startup and never changes afterwards.
type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	JWTExpiresIn    time.Duration `env:"JWT_EXPIRES_IN,    default=168h"`
	JWTIssuer       string        `env:"JWT_ISSUER,        default=account-service"`
	BcryptCost      int           `env:"BCRYPT_COST,       default=12"`
	HashWorkers     int           `env:"HASH_WORKERS,      default=0"`
	AllowSignupRole bool          `env:"ALLOW_SIGNUP_ROLE, default=false"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=user_management"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB,       default=0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE, default=0"`
	CacheEnabled bool          `env:"CACHE_ENABLED,  default=true"`
	CacheTTL     time.Duration `env:"CACHE_TTL,      default=30s"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.Auth.JWTExpiresIn <= 0 {
		return errors.New("config: JWT_EXPIRES_IN must be positive")
	}
	if c.Redis.CacheEnabled && c.Redis.CacheTTL <= 0 {
		return errors.New("config: CACHE_TTL must be positive when the cache is enabled")
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
