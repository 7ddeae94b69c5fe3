// Package config loads the root service configuration from TOML with an
// environment overlay and STEWARD_* variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/internal/model"
	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStewardEnv             = "STEWARD_ENV"
	EnvStewardShutdownTimeout = "STEWARD_SHUTDOWN_TIMEOUT"
	EnvStewardVersion         = "STEWARD_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "STEWARD_DB_HOST",
	Port:            "STEWARD_DB_PORT",
	Name:            "STEWARD_DB_NAME",
	User:            "STEWARD_DB_USER",
	Password:        "STEWARD_DB_PASSWORD",
	SSLMode:         "STEWARD_DB_SSL_MODE",
	MaxOpenConns:    "STEWARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "STEWARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "STEWARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "STEWARD_DB_CONN_TIMEOUT",
}

var catalogEnv = &catalog.Env{
	BaseURL:            "STEWARD_CATALOG_BASE_URL",
	Username:           "STEWARD_CATALOG_USERNAME",
	Password:           "STEWARD_CATALOG_PASSWORD",
	Cluster:            "STEWARD_CATALOG_CLUSTER",
	PostgresEntityType: "STEWARD_CATALOG_POSTGRES_ENTITY_TYPE",
	MongoEntityType:    "STEWARD_CATALOG_MONGO_ENTITY_TYPE",
	ClassificationType: "STEWARD_CATALOG_CLASSIFICATION_TYPE",
	JustificationType:  "STEWARD_CATALOG_JUSTIFICATION_TYPE",
	TimeoutSeconds:     "STEWARD_CATALOG_TIMEOUT_SECONDS",
}

var modelEnv = &model.Env{
	BaseURL:        "STEWARD_MODEL_BASE_URL",
	APIKey:         "STEWARD_MODEL_API_KEY",
	Model:          "STEWARD_MODEL_NAME",
	TimeoutSeconds: "STEWARD_MODEL_TIMEOUT_SECONDS",
	MaxRetries:     "STEWARD_MODEL_MAX_RETRIES",
}

var promptsEnv = &prompts.Env{
	TemplateDir: "STEWARD_PROMPTS_TEMPLATE_DIR",
}

// Config is the root configuration for the Steward service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Catalog         catalog.Config  `toml:"catalog"`
	Model           model.Config    `toml:"model"`
	Prompts         prompts.Config  `toml:"prompts"`
	Sources         SourcesConfig   `toml:"sources"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the STEWARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Catalog.Merge(&overlay.Catalog)
	c.Model.Merge(&overlay.Model)
	c.Prompts.Merge(&overlay.Prompts)
	c.Sources.Merge(&overlay.Sources)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Catalog.Finalize(catalogEnv); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Model.Finalize(modelEnv); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Prompts.Finalize(promptsEnv); err != nil {
		return fmt.Errorf("prompts: %w", err)
	}
	if err := c.Sources.Finalize(); err != nil {
		return fmt.Errorf("sources: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStewardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStewardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
