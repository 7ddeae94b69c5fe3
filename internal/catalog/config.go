package catalog

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds governance catalog connection and naming settings.
type Config struct {
	BaseURL            string `toml:"base_url"`
	Username           string `toml:"username"`
	Password           string `toml:"password"`
	Cluster            string `toml:"cluster"`
	PostgresEntityType string `toml:"postgres_entity_type"`
	MongoEntityType    string `toml:"mongo_entity_type"`
	ClassificationType string `toml:"classification_type"`
	JustificationType  string `toml:"justification_type"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
}

// Env maps Config fields to environment variable names.
type Env struct {
	BaseURL            string
	Username           string
	Password           string
	Cluster            string
	PostgresEntityType string
	MongoEntityType    string
	ClassificationType string
	JustificationType  string
	TimeoutSeconds     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.Cluster != "" {
		c.Cluster = overlay.Cluster
	}
	if overlay.PostgresEntityType != "" {
		c.PostgresEntityType = overlay.PostgresEntityType
	}
	if overlay.MongoEntityType != "" {
		c.MongoEntityType = overlay.MongoEntityType
	}
	if overlay.ClassificationType != "" {
		c.ClassificationType = overlay.ClassificationType
	}
	if overlay.JustificationType != "" {
		c.JustificationType = overlay.JustificationType
	}
	if overlay.TimeoutSeconds != 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:21000/api/atlas/v2"
	}
	if c.Username == "" {
		c.Username = "admin"
	}
	if c.Cluster == "" {
		c.Cluster = "mycluster"
	}
	if c.PostgresEntityType == "" {
		c.PostgresEntityType = "postgres_table"
	}
	if c.MongoEntityType == "" {
		c.MongoEntityType = "mongo_collection"
	}
	if c.ClassificationType == "" {
		c.ClassificationType = "classification_tag"
	}
	if c.JustificationType == "" {
		c.JustificationType = "llm_justification"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.Cluster != "" {
		if v := os.Getenv(env.Cluster); v != "" {
			c.Cluster = v
		}
	}
	if env.PostgresEntityType != "" {
		if v := os.Getenv(env.PostgresEntityType); v != "" {
			c.PostgresEntityType = v
		}
	}
	if env.MongoEntityType != "" {
		if v := os.Getenv(env.MongoEntityType); v != "" {
			c.MongoEntityType = v
		}
	}
	if env.ClassificationType != "" {
		if v := os.Getenv(env.ClassificationType); v != "" {
			c.ClassificationType = v
		}
	}
	if env.JustificationType != "" {
		if v := os.Getenv(env.JustificationType); v != "" {
			c.JustificationType = v
		}
	}
	if env.TimeoutSeconds != "" {
		if v := os.Getenv(env.TimeoutSeconds); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				c.TimeoutSeconds = seconds
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Password == "" {
		return fmt.Errorf("password required")
	}
	return nil
}
