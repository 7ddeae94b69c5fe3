package sources

import (
	"fmt"
	"os"
	"strconv"
)

// PostgresConfig holds connection parameters for a PostgreSQL metadata source.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	SSLMode  string `toml:"ssl_mode"`
	Schema   string `toml:"schema"`
}

// PostgresEnv maps PostgresConfig fields to environment variable names.
type PostgresEnv struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
	Schema   string
}

// Dsn returns a PostgreSQL connection string for the source.
func (c *PostgresConfig) Dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PostgresConfig) Finalize(env *PostgresEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PostgresConfig) Merge(overlay *PostgresConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Database != "" {
		c.Database = overlay.Database
	}
	if overlay.User != "" {
		c.User = overlay.User
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.SSLMode != "" {
		c.SSLMode = overlay.SSLMode
	}
	if overlay.Schema != "" {
		c.Schema = overlay.Schema
	}
}

func (c *PostgresConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.Schema == "" {
		c.Schema = "public"
	}
}

func (c *PostgresConfig) loadEnv(env *PostgresEnv) {
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Port != "" {
		if v := os.Getenv(env.Port); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.Port = port
			}
		}
	}
	if env.Database != "" {
		if v := os.Getenv(env.Database); v != "" {
			c.Database = v
		}
	}
	if env.User != "" {
		if v := os.Getenv(env.User); v != "" {
			c.User = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.SSLMode != "" {
		if v := os.Getenv(env.SSLMode); v != "" {
			c.SSLMode = v
		}
	}
	if env.Schema != "" {
		if v := os.Getenv(env.Schema); v != "" {
			c.Schema = v
		}
	}
}

func (c *PostgresConfig) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	return nil
}

// MongoConfig holds connection parameters for a MongoDB metadata source.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// MongoEnv maps MongoConfig fields to environment variable names.
type MongoEnv struct {
	URI      string
	Database string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MongoConfig) Finalize(env *MongoEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MongoConfig) Merge(overlay *MongoConfig) {
	if overlay.URI != "" {
		c.URI = overlay.URI
	}
	if overlay.Database != "" {
		c.Database = overlay.Database
	}
}

func (c *MongoConfig) loadDefaults() {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
}

func (c *MongoConfig) loadEnv(env *MongoEnv) {
	if env.URI != "" {
		if v := os.Getenv(env.URI); v != "" {
			c.URI = v
		}
	}
	if env.Database != "" {
		if v := os.Getenv(env.Database); v != "" {
			c.Database = v
		}
	}
}

func (c *MongoConfig) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database required")
	}
	return nil
}
