package api

import (
	"net/http"

	"github.com/JaimeStill/steward/internal/catalog"
	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/internal/sources"
	"github.com/JaimeStill/steward/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	routes.Register(
		mux,
		sources.NewHandler(domain.Sources, runtime.Logger).Routes(),
		classifications.NewHandler(domain.Classifications, runtime.Pagination, runtime.Logger).Routes(),
		catalog.NewHandler(domain.Catalog, domain.CatalogClient, domain.CatalogStore, runtime.Logger).Routes(),
	)
}
