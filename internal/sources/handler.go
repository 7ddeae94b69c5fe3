package sources

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler exposes read-only source introspection over HTTP.
type Handler struct {
	registry *Registry
	logger   *slog.Logger
}

// NewHandler creates a source introspection handler.
func NewHandler(registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		logger:   logger.With("system", "sources"),
	}
}

// Routes returns the route group for source endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sources",
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/{source}/entities", Handler: h.listEntities},
			{Method: http.MethodGet, Pattern: "/{source}/entities/{entity}", Handler: h.describe},
			{Method: http.MethodGet, Pattern: "/{source}/entities/{entity}/sample", Handler: h.sample},
		},
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (System, bool) {
	sourceType, err := ParseType(r.PathValue("source"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	system, err := h.registry.Lookup(sourceType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	return system, true
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	system, ok := h.resolve(w, r)
	if !ok {
		return
	}

	entities, err := system.ListEntities(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if entities == nil {
		entities = []string{}
	}
	handlers.RespondJSON(w, http.StatusOK, entities)
}

func (h *Handler) describe(w http.ResponseWriter, r *http.Request) {
	system, ok := h.resolve(w, r)
	if !ok {
		return
	}

	descriptors, err := system.Describe(r.Context(), r.PathValue("entity"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, descriptors)
}

func (h *Handler) sample(w http.ResponseWriter, r *http.Request) {
	system, ok := h.resolve(w, r)
	if !ok {
		return
	}

	sample, err := system.Sample(r.Context(), r.PathValue("entity"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"sample": sample})
}
