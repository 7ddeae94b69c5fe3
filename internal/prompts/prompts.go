// Package prompts compiles classification prompts from named templates and
// normalized entity descriptors. Default templates are embedded; a template
// directory can override them per deployment.
package prompts

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/steward/internal/sources"
)

// Template identifiers.
const (
	TemplateStructured   = "structured"
	TemplateUnstructured = "unstructured"
)

// ErrTemplateNotFound indicates the named template does not exist. There is
// no fallback across template identifiers.
var ErrTemplateNotFound = errors.New("prompt template not found")

// MapHTTPStatus maps prompt errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrTemplateNotFound) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// System defines the prompt compilation contract consumed by the pipeline.
type System interface {
	// Compile resolves the named template and interpolates the entity
	// context built from its descriptors.
	Compile(id string, entityName string, descriptors []sources.Descriptor) (string, error)
}

// Compiler resolves templates and builds prompts. With an empty template
// directory only the embedded defaults are served; with a directory set,
// templates load from prompt_<id>.txt files instead.
type Compiler struct {
	templateDir string
}

// NewCompiler creates a prompt compiler. templateDir may be empty.
func NewCompiler(templateDir string) *Compiler {
	return &Compiler{templateDir: templateDir}
}

func (c *Compiler) Compile(id string, entityName string, descriptors []sources.Descriptor) (string, error) {
	template, err := c.load(id)
	if err != nil {
		return "", err
	}

	context := buildContext(id, entityName, descriptors)
	return strings.ReplaceAll(template, "{context}", context), nil
}

func (c *Compiler) load(id string) (string, error) {
	if c.templateDir != "" {
		path := filepath.Join(c.templateDir, fmt.Sprintf("prompt_%s.txt", id))
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
			}
			return "", fmt.Errorf("read template %s: %w", path, err)
		}
		return string(data), nil
	}

	template, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return template, nil
}

// buildContext formats the descriptor block the template interpolates. The
// header names the entity by its source shape so the model echoes it back.
func buildContext(id string, entityName string, descriptors []sources.Descriptor) string {
	var sb strings.Builder

	if id == TemplateUnstructured {
		fmt.Fprintf(&sb, "Collection : %s\n\nChamps :\n", entityName)
	} else {
		fmt.Fprintf(&sb, "Table : %s\n\nColonnes :\n", entityName)
	}

	for _, d := range descriptors {
		if d.Type != "" {
			fmt.Fprintf(&sb, "- %s (%s)\n", d.Name, d.Type)
		} else {
			fmt.Fprintf(&sb, "- %s\n", d.Name)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
