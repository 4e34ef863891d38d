package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-signshop-api/pkg/database"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultSQLitePath = "database/database.sqlite"

type Config struct {
	AppName string `env:"APP_NAME,default=Sign Shop Back Office"`
	Port    string `env:"PORT,default=5000"`

	DBDriver    string `env:"DB_DRIVER,default=sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBUser      string `env:"DB_USER,default=postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME,default=signshop"`
	DBPort      string `env:"DB_PORT,default=5432"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=console"`

	SeedDemo         bool          `env:"SEED_DEMO,default=false"`
	CORSAllowOrigins string        `env:"CORS_ALLOW_ORIGINS,default=*"`
	StaticDir        string        `env:"STATIC_DIR"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads .env (when present) and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv decodes the process environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverSQLite, database.DriverPostgres, cfg.DBDriver)
	}
	return &cfg, nil
}

// DSN is DATABASE_URL, or a default built for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == database.DriverPostgres {
		return database.PostgresDSN(c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	}
	return defaultSQLitePath
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
