// Package workflow runs the classification pipeline: describe an entity,
// compile its prompt, complete it against the model, and parse the free-text
// response into per-field ratings with an initial aggregate.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/steward/internal/model"
	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
)

// Runtime bundles the collaborators a pipeline execution needs.
type Runtime struct {
	Sources *sources.Registry
	Prompts prompts.System
	Model   model.Completer
	Logger  *slog.Logger
}

// Result is the outcome of one pipeline execution. Label and Level carry
// the model's reported final classification verbatim; OverallLevel is the
// aggregate recomputed from the per-field ratings and is the value the
// session record trusts.
type Result struct {
	EntityName         string
	Source             sources.Type
	Label              string
	Level              int
	FinalJustification string
	Fields             []sensitivity.FieldClassification
	OverallLevel       sensitivity.Level
	Raw                string
}

// templateFor maps a source type to the prompt template shaped for it.
func templateFor(t sources.Type) string {
	if t == sources.TypeMongo {
		return prompts.TemplateUnstructured
	}
	return prompts.TemplateStructured
}

// Execute runs the full pipeline for one entity. Failures are returned at
// the stage they occur; a source failure never reaches the prompt compiler
// and a parse failure never produces a partial result.
func Execute(ctx context.Context, rt *Runtime, source sources.Type, entity string) (*Result, error) {
	system, err := rt.Sources.Lookup(source)
	if err != nil {
		return nil, err
	}

	descriptors, err := system.Describe(ctx, entity)
	if err != nil {
		return nil, err
	}

	prompt, err := rt.Prompts.Compile(templateFor(source), entity, descriptors)
	if err != nil {
		return nil, err
	}

	rt.Logger.Debug("prompt compiled", "entity", entity, "source", source, "descriptors", len(descriptors))

	raw, err := rt.Model.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := Parse(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			rt.Logger.Warn("model response rejected",
				"entity", entity,
				"entity_matched", parseErr.Matched["entity"],
				"classification_matched", parseErr.Matched["classification"],
				"justification_matched", parseErr.Matched["justification"],
			)
		}
		return nil, err
	}

	return &Result{
		EntityName:         parsed.EntityName,
		Source:             source,
		Label:              parsed.Label,
		Level:              parsed.Level,
		FinalJustification: parsed.FinalJustification,
		Fields:             parsed.Fields,
		OverallLevel:       sensitivity.Aggregate(parsed.Fields),
		Raw:                raw,
	}, nil
}

// MapHTTPStatus maps pipeline errors, including collaborator errors, to
// appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadGateway
	}
	if status := sources.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	if status := prompts.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	if status := model.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
