package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrUnknownDriver      = errors.New("unknown store driver")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres driver")
	ErrInvalidJWTTTL      = errors.New("JWT_TTL must be positive")
)

type (
	// Config holds application configuration
	Config struct {
		Version     string `env:"VERSION" envDefault:"0.1.0"`
		Port        int    `env:"PORT" envDefault:"3000"`
		Environment string `env:"ENVIRONMENT" envDefault:"dev"`
		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
		SentryDSN   string `env:"SENTRY_DSN"`

		StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
		DatabaseURL string `env:"DATABASE_URL"`
		Mongo       MongoConfig

		JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
		JWTTTL     time.Duration `env:"JWT_TTL" envDefault:"1h"`
		BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	}

	MongoConfig struct {
		URI            string        `env:"MONGODB_URI"`
		Scheme         string        `env:"MONGODB_SCHEME" envDefault:"mongodb"`
		Host           string        `env:"MONGODB_HOST" envDefault:"localhost:27017"`
		Username       string        `env:"MONGODB_USERNAME"`
		Password       string        `env:"MONGODB_PASSWORD"`
		Database       string        `env:"MONGODB_DATABASE" envDefault:"todosAppDb"`
		ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	}
)

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTTTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidJWTTTL, c.JWTTTL)
	}

	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
		return nil
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.StoreDriver)
	}
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}

// ConnectionURI returns MONGODB_URI when set, otherwise builds one from the
// credential parts. Credentials are escaped.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}

	u := url.URL{
		Scheme: m.Scheme,
		Host:   m.Host,
		Path:   "/" + m.Database,
	}
	if m.Username != "" {
		u.User = url.UserPassword(m.Username, m.Password)
	}
	return u.String()
}
