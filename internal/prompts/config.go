package prompts

import "os"

// Config controls prompt template resolution.
type Config struct {
	// TemplateDir overrides the embedded templates when set; templates load
	// from prompt_<id>.txt files in that directory.
	TemplateDir string `toml:"template_dir"`
}

// Env maps Config fields to environment variable names.
type Env struct {
	TemplateDir string
}

// Finalize applies environment variable overrides. The empty value is valid
// and selects the embedded templates.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.TemplateDir != "" {
		c.TemplateDir = overlay.TemplateDir
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.TemplateDir != "" {
		if v := os.Getenv(env.TemplateDir); v != "" {
			c.TemplateDir = v
		}
	}
}
