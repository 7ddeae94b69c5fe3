// Package catalog synchronizes classification sessions into the governance
// catalog and serves the dashboard views built on top of it. The catalog
// speaks an Apache Atlas style REST API with HTTP Basic authentication.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/steward/internal/sensitivity"
	"github.com/JaimeStill/steward/internal/sources"
)

// Client is a thin catalog API client. Writes are not retried in process;
// the synchronizer records progress and resumes instead, relying on the
// catalog's idempotent handling of repeated writes.
type Client struct {
	http     *http.Client
	baseURL  string
	username string
	password string
	cfg      *Config
}

// NewClient creates a catalog client from the given configuration.
func NewClient(cfg *Config) *Client {
	return &Client{
		http:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		cfg:      cfg,
	}
}

// EntityTypeFor returns the catalog entity type name for a source type.
func (c *Client) EntityTypeFor(source sources.Type) string {
	if source == sources.TypeMongo {
		return c.cfg.MongoEntityType
	}
	return c.cfg.PostgresEntityType
}

// QualifiedName returns the catalog unique name for an entity.
func (c *Client) QualifiedName(name string) string {
	return fmt.Sprintf("%s@%s", name, c.cfg.Cluster)
}

type entityEnvelope struct {
	Entity entityBody `json:"entity"`
}

type entityBody struct {
	TypeName               string         `json:"typeName"`
	Attributes             map[string]any `json:"attributes"`
	RelationshipAttributes map[string]any `json:"relationshipAttributes,omitempty"`
}

// CreateEntity creates or updates the catalog entity for a classified
// source entity. The level attribute carries the catalog display index.
func (c *Client) CreateEntity(ctx context.Context, source sources.Type, name, description string, level sensitivity.Level) error {
	payload := entityEnvelope{
		Entity: entityBody{
			TypeName: c.EntityTypeFor(source),
			Attributes: map[string]any{
				"qualifiedName": c.QualifiedName(name),
				"name":          name,
				"description":   description,
				"level":         level.DisplayIndex(),
			},
		},
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/entity", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return responseError("create entity", resp)
	}
	return nil
}

// ResolveGUID looks up the catalog GUID for an entity by its unique
// qualified name. The catalog assigns GUIDs; they are never generated here.
func (c *Client) ResolveGUID(ctx context.Context, source sources.Type, name string) (string, error) {
	lookup := fmt.Sprintf("%s/entity/uniqueAttribute/type/%s?attr:qualifiedName=%s",
		c.baseURL, c.EntityTypeFor(source), url.QueryEscape(c.QualifiedName(name)))

	resp, err := c.do(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrGUIDNotFound, name)
	}
	if resp.StatusCode != http.StatusOK {
		return "", responseError("resolve guid", resp)
	}

	var result struct {
		Entity struct {
			GUID string `json:"guid"`
		} `json:"entity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode guid response: %w", ErrCatalogRequest, err)
	}
	if result.Entity.GUID == "" {
		return "", fmt.Errorf("%w: %s", ErrGUIDNotFound, name)
	}

	return result.Entity.GUID, nil
}

// AddClassification attaches the classification tag to an entity by GUID.
// A 400 reporting an existing association returns ErrAlreadyClassified,
// which callers treat as success.
func (c *Client) AddClassification(ctx context.Context, guid string, level sensitivity.Level, justification string) error {
	payload := []map[string]any{{
		"typeName": c.cfg.ClassificationType,
		"attributes": map[string]any{
			"level":         level.DisplayIndex(),
			"justification": justification,
		},
	}}

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/entity/guid/%s/classifications", c.baseURL, guid), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if strings.Contains(string(body), "already associated with classification") {
			return ErrAlreadyClassified
		}
		return fmt.Errorf("%w: add classification: status 400: %s", ErrCatalogRequest, strings.TrimSpace(string(body)))
	default:
		return responseError("add classification", resp)
	}
}

// CreateJustification creates the justification entity carrying the final
// justification text and the entity-level FCRO sub-scores, related to the
// parent entity by GUID.
func (c *Client) CreateJustification(ctx context.Context, parentGUID string, source sources.Type, name, justification string, scores sensitivity.Scores, level sensitivity.Level) error {
	entityType := c.EntityTypeFor(source)
	payload := entityEnvelope{
		Entity: entityBody{
			TypeName: c.cfg.JustificationType,
			Attributes: map[string]any{
				"qualifiedName":       fmt.Sprintf("%s@justification", name),
				"name":                fmt.Sprintf("Justification de %s", name),
				"justification_text":  justification,
				"level":               level.DisplayIndex(),
				"fcro_f":              scores.F,
				"fcro_c":              scores.C,
				"fcro_r":              scores.R,
				"fcro_o":              scores.O,
				"related_entity_name": name,
				"related_entity_type": entityType,
			},
			RelationshipAttributes: map[string]any{
				"related_to": map[string]any{
					"guid":     parentGUID,
					"typeName": entityType,
				},
			},
		},
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/entity", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return responseError("create justification", resp)
	}
	return nil
}

// DeleteEntity removes a catalog entity by GUID.
func (c *Client) DeleteEntity(ctx context.Context, guid string) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/entity/guid/%s", c.baseURL, guid), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrGUIDNotFound, guid)
	default:
		return responseError("delete entity", resp)
	}
}

// Entity is a catalog entity row as presented on the dashboard.
type Entity struct {
	GUID            string `json:"guid"`
	Name            string `json:"name"`
	TypeName        string `json:"type_name"`
	Level           any    `json:"level"`
	Description     string `json:"description"`
	Classifications []string `json:"classifications"`
}

// Search lists classified entities of the configured source types.
func (c *Client) Search(ctx context.Context) ([]Entity, error) {
	payload := map[string]any{
		"typeName":               c.cfg.PostgresEntityType + "," + c.cfg.MongoEntityType,
		"excludeDeletedEntities": true,
		"includeClassification":  true,
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/search/basic", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("search", resp)
	}

	var result struct {
		Entities []struct {
			GUID                string         `json:"guid"`
			TypeName            string         `json:"typeName"`
			Attributes          map[string]any `json:"attributes"`
			ClassificationNames []string       `json:"classificationNames"`
		} `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", ErrCatalogRequest, err)
	}

	entities := make([]Entity, 0, len(result.Entities))
	for _, e := range result.Entities {
		name, _ := e.Attributes["name"].(string)
		description, _ := e.Attributes["description"].(string)
		entities = append(entities, Entity{
			GUID:            e.GUID,
			Name:            name,
			TypeName:        e.TypeName,
			Level:           e.Attributes["level"],
			Description:     description,
			Classifications: e.ClassificationNames,
		})
	}

	return entities, nil
}

func (c *Client) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal request: %w", ErrCatalogRequest, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalogRequest, err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogRequest, err)
	}
	return resp, nil
}

func responseError(step string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s: status %d: %s", ErrCatalogRequest, step, resp.StatusCode, strings.TrimSpace(string(body)))
}
