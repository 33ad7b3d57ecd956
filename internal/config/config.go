package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// DefaultDBFile is the audit database file name used when SENTIMENT_DB_PATH is unset.
const DefaultDBFile = "sentiment_logs.db"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	AuditDB    AuditDBConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	StaticDir       string        `envconfig:"STATIC_DIR" default:"./static"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string   `envconfig:"APP_NAME" default:"sentiment-api"`
	Environment string   `envconfig:"APP_ENV" default:"development"`
	LogLevel    string   `envconfig:"APP_LOG_LEVEL" default:"info"`
	Version     string   `envconfig:"APP_VERSION" default:"1.0.0"`
	AuditKeys   []string `envconfig:"AUDIT_API_KEYS"` // empty = audit endpoint is public
}

// AuditDBConfig holds audit log storage settings.
type AuditDBConfig struct {
	Type string `envconfig:"AUDIT_DB_TYPE" default:"sqlite"` // sqlite, mysql or postgres
	Path string `envconfig:"SENTIMENT_DB_PATH"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"AUDIT_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"AUDIT_DB_PORT"`
	Name     string `envconfig:"AUDIT_DB_NAME" default:"sentiment"`
	User     string `envconfig:"AUDIT_DB_USER" default:"sentiment"`
	Password string `envconfig:"AUDIT_DB_PASS" default:""`
	SSLMode  string `envconfig:"AUDIT_DB_SSLMODE" default:"disable"`
}

// ClassifierConfig holds settings for the remote sentiment model.
type ClassifierConfig struct {
	URL     string        `envconfig:"CLASSIFIER_URL" default:"https://api-inference.huggingface.co"`
	Model   string        `envconfig:"CLASSIFIER_MODEL" default:"vojmahdal/roberta-sentiment-3labels"`
	Token   string        `envconfig:"CLASSIFIER_TOKEN" default:""`
	Timeout time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"30s"`
	Enabled bool          `envconfig:"CLASSIFIER_ENABLED" default:"true"`
}

// CacheConfig holds prediction cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory, redis or none
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"10m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// DSN returns the driver-specific data source name for the audit store.
func (a *AuditDBConfig) DSN() string {
	switch a.Type {
	case "mysql":
		port := a.Port
		if port == 0 {
			port = 3306
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			a.User, a.Password, a.Host, port, a.Name)
	case "postgres", "postgresql":
		port := a.Port
		if port == 0 {
			port = 5432
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			a.User, a.Password, a.Host, port, a.Name, a.SSLMode)
	default:
		return a.Path
	}
}

// DefaultDBPath returns the platform default location of the SQLite audit file.
// Windows keeps it next to the executable; everything else uses the temp dir,
// which suits ephemeral hosts where losing the log on restart is fine.
func DefaultDBPath(goos string) string {
	if goos == "windows" {
		exe, err := os.Executable()
		if err != nil {
			return DefaultDBFile
		}
		return filepath.Join(filepath.Dir(exe), DefaultDBFile)
	}
	return "/tmp/" + DefaultDBFile
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.AuditDB.Type = strings.ToLower(strings.TrimSpace(cfg.AuditDB.Type))
	if cfg.AuditDB.Path == "" {
		cfg.AuditDB.Path = DefaultDBPath(runtime.GOOS)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
