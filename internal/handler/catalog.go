// Package handler contains the HTTP handlers for the estimate API.
//
// This file implements the service catalog endpoints: the per-account set
// of priced offerings the widget presents in its service picker.
package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/service"
)

// maxBodySize caps request bodies; catalog and estimate payloads are small.
const maxBodySize = 64 * 1024

// =============================================================================
// Response Types
// =============================================================================

// ServiceResponse is the wire shape of one catalog entry.
type ServiceResponse struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Unit        string          `json:"unit"`
	BasePrice   decimal.Decimal `json:"base_price"`
	UsesStories bool            `json:"uses_stories"`
	Position    int32           `json:"position"`
}

// serviceRequest is the editable portion of a catalog entry.
type serviceRequest struct {
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	BasePrice decimal.Decimal `json:"base_price"`
}

func toServiceResponse(svc domain.ServiceDefinition) ServiceResponse {
	return ServiceResponse{
		Key:         svc.Key,
		Label:       svc.Label,
		Unit:        string(svc.Unit),
		BasePrice:   svc.BasePrice,
		UsesStories: svc.UsesStories,
		Position:    svc.Position,
	}
}

// =============================================================================
// Handler Configuration
// =============================================================================

// CatalogHandler handles service catalog HTTP requests.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes on the mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/accounts/{accountID}/services", h.List)
	mux.HandleFunc("POST /api/accounts/{accountID}/services", h.Create)
	mux.HandleFunc("PUT /api/accounts/{accountID}/services/{key}", h.Update)
	mux.HandleFunc("DELETE /api/accounts/{accountID}/services/{key}", h.Delete)
}

// =============================================================================
// GET /api/accounts/{accountID}/services - List Catalog
// =============================================================================

// List returns the account's catalog, seeding defaults on first read.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	services, err := h.catalog.List(r.Context(), accountID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		resp = append(resp, toServiceResponse(svc))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"services": resp})
}

// =============================================================================
// POST /api/accounts/{accountID}/services - Add Service
// =============================================================================

// Create appends a new service to the catalog. The key is derived from
// the label server-side and returned in the response.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	svc, err := h.catalog.Add(r.Context(), domain.AddServiceParams{
		AccountID: accountID,
		Label:     req.Label,
		Unit:      domain.Unit(req.Unit),
		BasePrice: req.BasePrice,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(*svc))
}

// =============================================================================
// PUT /api/accounts/{accountID}/services/{key} - Update Service
// =============================================================================

// Update edits a service's label, unit and price in place. The key in the
// path identifies the service and never changes.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req serviceRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	svc, err := h.catalog.Update(r.Context(), domain.UpdateServiceParams{
		AccountID: accountID,
		Key:       r.PathValue("key"),
		Label:     req.Label,
		Unit:      domain.Unit(req.Unit),
		BasePrice: req.BasePrice,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(*svc))
}

// =============================================================================
// DELETE /api/accounts/{accountID}/services/{key} - Remove Service
// =============================================================================

// Delete removes a service. Deleting an absent key succeeds; the outcome
// (key not in catalog) is the same either way.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.catalog.Remove(r.Context(), accountID, r.PathValue("key")); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helper Functions
// =============================================================================

// pathUUID parses a UUID path segment.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("handler.path", "invalid "+name)
	}
	return id, nil
}

// decodeJSON decodes a size-limited JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return domain.Invalid("handler.decode", "invalid JSON body")
	}
	return nil
}
