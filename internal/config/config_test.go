package config_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/steward/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("STEWARD_DB_NAME", "steward")
	t.Setenv("STEWARD_DB_USER", "steward")
	t.Setenv("STEWARD_CATALOG_PASSWORD", "admin")
	t.Setenv("STEWARD_MODEL_API_KEY", "test-key")
	t.Setenv("STEWARD_SOURCE_PG_DATABASE", "banque")
	t.Setenv("STEWARD_SOURCE_PG_USER", "reader")
	t.Setenv("STEWARD_SOURCE_MONGO_DATABASE", "banque")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("API.BasePath = %q, want /api", cfg.API.BasePath)
	}
	if cfg.Catalog.ClassificationType != "classification_tag" {
		t.Errorf("Catalog.ClassificationType = %q", cfg.Catalog.ClassificationType)
	}
	if cfg.Catalog.Cluster != "mycluster" {
		t.Errorf("Catalog.Cluster = %q", cfg.Catalog.Cluster)
	}
	if cfg.Model.Model != "gemini-1.5-flash" {
		t.Errorf("Model.Model = %q", cfg.Model.Model)
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STEWARD_SERVER_PORT", "9000")
	t.Setenv("STEWARD_CATALOG_BASE_URL", "http://atlas:21000/api/atlas/v2")
	t.Setenv("STEWARD_MODEL_NAME", "gemini-2.0-flash")
	t.Setenv("STEWARD_SOURCE_PG_SCHEMA", "banking")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "http://atlas:21000/api/atlas/v2" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Model.Model != "gemini-2.0-flash" {
		t.Errorf("Model.Model = %q", cfg.Model.Model)
	}
	if cfg.Sources.Postgres.Schema != "banking" {
		t.Errorf("Sources.Postgres.Schema = %q", cfg.Sources.Postgres.Schema)
	}
}

func TestLoadMissingRequiredValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STEWARD_MODEL_API_KEY", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "api key") {
		t.Errorf("error %q does not mention api key", err.Error())
	}
}

func TestMerge(t *testing.T) {
	base := &config.Config{ShutdownTimeout: "30s", Version: "0.1.0"}
	base.Server.Port = 8080

	overlay := &config.Config{Version: "0.2.0"}
	overlay.Server.Port = 9000

	base.Merge(overlay)

	if base.Version != "0.2.0" {
		t.Errorf("Version = %q, want 0.2.0", base.Version)
	}
	if base.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", base.Server.Port)
	}
	if base.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, zero overlay should not overwrite", base.ShutdownTimeout)
	}
}
