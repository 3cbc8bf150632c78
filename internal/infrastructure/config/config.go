package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	ResolverLocal      = "local"
	ResolverCloudinary = "cloudinary"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	SQL     SQLConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Files   FilesConfig
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET, required"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,      default=24h"`
	LoginCodeTTL time.Duration `env:"LOGIN_CODE_TTL, default=72h"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type SQLConfig struct {
	DSN string `env:"SQL_DSN, default=marketplace.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// SMTPConfig is optional. An empty Host selects the log notifier.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=no-reply@taskconnect.local"`
}

type FilesConfig struct {
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
	ImageDir      string `env:"IMAGE_DIR,       default=./public/images"`
	Resolver      string `env:"FILE_RESOLVER,   default=local"`
	CloudinaryURL string `env:"CLOUDINARY_URL"`
}

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads a .env file when present and then the process environment
// using go-envconfig. Variables already set in the environment win.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageMongo, StoragePostgres, StorageSQLite:
	default:
		return fmt.Errorf("config: unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	c.Files.Resolver = strings.ToLower(strings.TrimSpace(c.Files.Resolver))
	switch c.Files.Resolver {
	case ResolverLocal:
	case ResolverCloudinary:
		if c.Files.CloudinaryURL == "" {
			return errors.New("config: CLOUDINARY_URL is required when FILE_RESOLVER=cloudinary")
		}
	default:
		return fmt.Errorf("config: unsupported FILE_RESOLVER %q", c.Files.Resolver)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.Auth.LoginCodeTTL <= 0 {
		return errors.New("config: LOGIN_CODE_TTL must be positive")
	}
	c.Files.PublicBaseURL = strings.TrimRight(c.Files.PublicBaseURL, "/")
	return nil
}
