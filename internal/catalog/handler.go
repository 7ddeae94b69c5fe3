package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifications"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler exposes catalog synchronization and dashboard endpoints.
type Handler struct {
	synchronizer *Synchronizer
	client       *Client
	store        StateStore
	logger       *slog.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(synchronizer *Synchronizer, client *Client, store StateStore, logger *slog.Logger) *Handler {
	return &Handler{
		synchronizer: synchronizer,
		client:       client,
		store:        store,
		logger:       logger.With("system", "catalog"),
	}
}

// Routes returns the route group for catalog endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/catalog",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/sync", Handler: h.syncBatch},
			{Method: http.MethodPost, Pattern: "/sync/{id}", Handler: h.sync},
			{Method: http.MethodGet, Pattern: "/sync/{id}", Handler: h.syncState},
			{Method: http.MethodGet, Pattern: "/entities", Handler: h.listEntities},
			{Method: http.MethodGet, Pattern: "/entities/export", Handler: h.exportEntities},
			{Method: http.MethodDelete, Pattern: "/entities/{guid}", Handler: h.deleteEntity},
		},
	}
}

// SyncBatchRequest names the classifications to push to the catalog.
type SyncBatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	report, err := h.synchronizer.Sync(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, classifications.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) syncBatch(w http.ResponseWriter, r *http.Request) {
	var req SyncBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.IDs) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("ids required"))
		return
	}

	reports := h.synchronizer.SyncBatch(r.Context(), req.IDs)
	handlers.RespondJSON(w, http.StatusOK, reports)
}

func (h *Handler) syncState(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	record, err := h.store.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.client.Search(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entities)
}

func (h *Handler) exportEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.client.Search(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog_entities.csv"`)

	writer := csv.NewWriter(w)
	writer.Write([]string{"name", "type", "level", "description", "classifications"})
	for _, e := range entities {
		writer.Write([]string{
			e.Name,
			e.TypeName,
			fmt.Sprintf("%v", e.Level),
			e.Description,
			strings.Join(e.Classifications, ";"),
		})
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteEntity(r.Context(), r.PathValue("guid")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
