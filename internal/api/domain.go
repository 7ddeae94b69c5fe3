package api

import (
	"fmt"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/internal/model"
	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sources         *sources.Registry
	Classifications classifications.System
	Catalog         *catalog.Synchronizer
	CatalogClient   *catalog.Client
	CatalogStore    *catalog.Store
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config

	pg, err := sources.NewPostgres(&cfg.Sources.Postgres)
	if err != nil {
		return nil, fmt.Errorf("postgres source init failed: %w", err)
	}

	mongo, err := sources.NewMongo(&cfg.Sources.Mongo)
	if err != nil {
		return nil, fmt.Errorf("mongo source init failed: %w", err)
	}

	registry := &sources.Registry{
		Postgres: pg,
		Mongo:    mongo,
	}
	registry.Start(runtime.Lifecycle, runtime.Logger)

	pipeline := &workflow.Runtime{
		Sources: registry,
		Prompts: prompts.NewCompiler(cfg.Prompts.TemplateDir),
		Model:   model.NewGemini(&cfg.Model),
		Logger:  runtime.Logger,
	}

	classificationsSystem := classifications.NewSystem(
		runtime.Database.Connection(),
		pipeline,
		runtime.Logger,
	)

	catalogClient := catalog.NewClient(&cfg.Catalog)
	catalogStore := catalog.NewStore(runtime.Database.Connection())
	synchronizer := catalog.NewSynchronizer(catalogClient, catalogStore, classificationsSystem, runtime.Logger)

	return &Domain{
		Sources:         registry,
		Classifications: classificationsSystem,
		Catalog:         synchronizer,
		CatalogClient:   catalogClient,
		CatalogStore:    catalogStore,
	}, nil
}
