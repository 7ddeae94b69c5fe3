// Package classifications manages entity classification sessions: running
// the pipeline, persisting the evolving per-entity record, and recomputing
// the aggregate after reviewer adjustments.
package classifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
)

// Classification is the session record for one classified entity. One record
// exists per (entity name, source type); repeated classifications overwrite
// it. ResultText retains the raw model output for audit.
type Classification struct {
	ID                 uuid.UUID                         `json:"id"`
	EntityName         string                            `json:"entity_name"`
	Source             sources.Type                      `json:"source"`
	OverallLevel       sensitivity.Level                 `json:"overall_level"`
	Label              string                            `json:"label"`
	ResultText         string                            `json:"result_text"`
	FinalJustification string                            `json:"final_justification"`
	Fields             []sensitivity.FieldClassification `json:"fields"`
	CreatedAt          time.Time                         `json:"created_at"`
	UpdatedAt          time.Time                         `json:"updated_at"`
}

// ClassifyRequest identifies the entity to run the pipeline against.
type ClassifyRequest struct {
	Source     sources.Type `json:"source"`
	EntityName string       `json:"entity_name"`
}

// ReaggregateRequest carries free-text reviewer comments keyed by field
// name. Comments that force a level override that field's rating before the
// aggregate recomputes.
type ReaggregateRequest struct {
	Comments map[string]string `json:"comments"`
}

// ReclassifyRequest names the fields to rerun through the model. Ratings
// for unnamed fields are retained.
type ReclassifyRequest struct {
	Fields []string `json:"fields"`
}
