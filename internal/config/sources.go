package config

import (
	"fmt"

	"github.com/JaimeStill/steward/internal/sources"
)

var sourcePostgresEnv = &sources.PostgresEnv{
	Host:     "STEWARD_SOURCE_PG_HOST",
	Port:     "STEWARD_SOURCE_PG_PORT",
	Database: "STEWARD_SOURCE_PG_DATABASE",
	User:     "STEWARD_SOURCE_PG_USER",
	Password: "STEWARD_SOURCE_PG_PASSWORD",
	SSLMode:  "STEWARD_SOURCE_PG_SSL_MODE",
	Schema:   "STEWARD_SOURCE_PG_SCHEMA",
}

var sourceMongoEnv = &sources.MongoEnv{
	URI:      "STEWARD_SOURCE_MONGO_URI",
	Database: "STEWARD_SOURCE_MONGO_DATABASE",
}

// SourcesConfig holds the metadata source connection settings.
type SourcesConfig struct {
	Postgres sources.PostgresConfig `toml:"postgres"`
	Mongo    sources.MongoConfig    `toml:"mongo"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for both source configs.
func (c *SourcesConfig) Finalize() error {
	if err := c.Postgres.Finalize(sourcePostgresEnv); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.Mongo.Finalize(sourceMongoEnv); err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across both source configs.
func (c *SourcesConfig) Merge(overlay *SourcesConfig) {
	c.Postgres.Merge(&overlay.Postgres)
	c.Mongo.Merge(&overlay.Mongo)
}
