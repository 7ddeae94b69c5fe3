package prompts_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/sources"
)

func descriptors() []sources.Descriptor {
	return []sources.Descriptor{
		{Name: "iban", Type: "text", Kind: sources.KindColumn},
		{Name: "solde", Type: "numeric", Kind: sources.KindColumn},
	}
}

func TestCompileStructured(t *testing.T) {
	compiler := prompts.NewCompiler("")

	prompt, err := compiler.Compile(prompts.TemplateStructured, "comptes", descriptors())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, want := range []string{
		"Table : comptes",
		"- iban (text)",
		"- solde (numeric)",
		"Classification finale",
		"Justification finale",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "{context}") {
		t.Error("context placeholder was not interpolated")
	}
}

func TestCompileUnstructured(t *testing.T) {
	compiler := prompts.NewCompiler("")

	fields := []sources.Descriptor{
		{Name: "email", Kind: sources.KindField},
	}

	prompt, err := compiler.Compile(prompts.TemplateUnstructured, "utilisateurs", fields)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if !strings.Contains(prompt, "Collection : utilisateurs") {
		t.Error("prompt missing collection header")
	}
	if !strings.Contains(prompt, "- email") {
		t.Error("prompt missing field line")
	}
}

func TestCompileUnknownTemplate(t *testing.T) {
	compiler := prompts.NewCompiler("")

	_, err := compiler.Compile("summary", "comptes", nil)
	if !errors.Is(err, prompts.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestCompileTemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	custom := "Analyse ceci :\n\n{context}\n\nRéponds."
	if err := os.WriteFile(filepath.Join(dir, "prompt_structured.txt"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	compiler := prompts.NewCompiler(dir)

	prompt, err := compiler.Compile(prompts.TemplateStructured, "comptes", descriptors())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if !strings.HasPrefix(prompt, "Analyse ceci :") {
		t.Error("override template not used")
	}
	if !strings.Contains(prompt, "Table : comptes") {
		t.Error("context not interpolated into override")
	}
}

func TestCompileTemplateDirMissingFile(t *testing.T) {
	// With a template directory set there is no fallback to the embedded
	// templates.
	compiler := prompts.NewCompiler(t.TempDir())

	_, err := compiler.Compile(prompts.TemplateUnstructured, "comptes", nil)
	if !errors.Is(err, prompts.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}
