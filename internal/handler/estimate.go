// Package handler contains the HTTP handlers for the estimate API.
//
// This file implements estimate submission and retrieval: the endpoint
// the widget calls when a shape is completed, the per-project listing,
// and the month-to-date usage summary.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/service"

	"github.com/google/uuid"
)

// =============================================================================
// Request/Response Types
// =============================================================================

// geometryPayload is the wire shape of a drawn geometry, GeoJSON-style:
// Polygon coordinates are rings of [x, y] pairs, LineString coordinates
// are a flat sequence. Coordinates are projected meters, not lon/lat.
type geometryPayload struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// estimateRequest carries one completed drawing into the pipeline.
type estimateRequest struct {
	ProjectID   uuid.UUID       `json:"project_id"`
	ServiceKey  string          `json:"service_type"`
	Geometry    geometryPayload `json:"geometry"`
	Address     string          `json:"address"`
	StoryCount  int             `json:"story_count"`
	FenceHeight float64         `json:"fence_height"`
}

// EstimateResponse is the wire shape of one persisted estimate.
type EstimateResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProjectID     uuid.UUID       `json:"project_id"`
	ServiceKey    string          `json:"service_type"`
	ServiceLabel  string          `json:"service_label"`
	Unit          string          `json:"unit"`
	Measurement   decimal.Decimal `json:"measurement"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Description   string          `json:"description"`
	Address       *string         `json:"address,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UsageResponse is the month-to-date consumption summary.
type UsageResponse struct {
	Used        int64     `json:"used"`
	Limit       int64     `json:"limit"`
	Unlimited   bool      `json:"unlimited"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

func toEstimateResponse(e domain.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:            e.ID,
		ProjectID:     e.ProjectID,
		ServiceKey:    e.ServiceKey,
		ServiceLabel:  e.ServiceLabel,
		Unit:          string(e.Unit),
		Measurement:   e.Measurement,
		EstimatedCost: e.EstimatedCost,
		Description:   e.Description,
		Address:       e.Address,
		CreatedAt:     e.CreatedAt,
	}
}

// =============================================================================
// Handler Configuration
// =============================================================================

// EstimateHandler handles estimate HTTP requests.
type EstimateHandler struct {
	estimates service.EstimateService
	policies  service.PolicyService
	logger    *slog.Logger
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(
	estimates service.EstimateService,
	policies service.PolicyService,
	logger *slog.Logger,
) *EstimateHandler {
	return &EstimateHandler{
		estimates: estimates,
		policies:  policies,
		logger:    logger,
	}
}

// RegisterRoutes registers the estimate routes on the mux. The rate limit
// wrapper is applied to the submission endpoint only.
func (h *EstimateHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /api/accounts/{accountID}/estimates", limit(http.HandlerFunc(h.Create)))
	mux.HandleFunc("GET /api/accounts/{accountID}/estimates", h.ListByProject)
	mux.HandleFunc("GET /api/accounts/{accountID}/usage", h.Usage)
}

// =============================================================================
// POST /api/accounts/{accountID}/estimates - Submit Estimate
// =============================================================================

// Create runs the submission pipeline for one completed drawing.
func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if req.ProjectID == uuid.Nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("estimate.create", "project_id is required"))
		return
	}
	if req.ServiceKey == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("estimate.create", "service_type is required"))
		return
	}

	geometry, err := parseGeometry(req.Geometry)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	estimate, err := h.estimates.Submit(r.Context(), domain.SubmitEstimateParams{
		AccountID:  accountID,
		ProjectID:  req.ProjectID,
		ServiceKey: req.ServiceKey,
		Geometry:   geometry,
		Address:    req.Address,
		Modifiers: domain.Modifiers{
			StoryCount:  req.StoryCount,
			FenceHeight: req.FenceHeight,
		},
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEstimateResponse(*estimate))
}

// =============================================================================
// GET /api/accounts/{accountID}/estimates - List Project Estimates
// =============================================================================

// ListByProject returns a drawing session's estimates in creation order.
func (h *EstimateHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	projectID, err := uuid.Parse(r.URL.Query().Get("project"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("estimate.list", "project query parameter must be a UUID"))
		return
	}

	estimates, err := h.estimates.ListByProject(r.Context(), accountID, projectID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	resp := make([]EstimateResponse, 0, len(estimates))
	for _, e := range estimates {
		resp = append(resp, toEstimateResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"estimates": resp})
}

// =============================================================================
// GET /api/accounts/{accountID}/usage - Usage Summary
// =============================================================================

// Usage returns the account's month-to-date estimate consumption.
func (h *EstimateHandler) Usage(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathUUID(r, "accountID")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	summary, err := h.policies.Usage(r.Context(), accountID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, UsageResponse{
		Used:        summary.Used,
		Limit:       summary.Limit,
		Unlimited:   summary.Unlimited,
		PeriodStart: summary.PeriodStart,
		PeriodEnd:   summary.PeriodEnd,
	})
}

// =============================================================================
// Geometry Parsing
// =============================================================================

// parseGeometry converts the wire geometry into a domain Geometry.
func parseGeometry(payload geometryPayload) (domain.Geometry, error) {
	const op = "estimate.geometry"

	switch domain.GeometryKind(payload.Type) {
	case domain.GeometryKindPolygon:
		var rings [][][2]float64
		if err := json.Unmarshal(payload.Coordinates, &rings); err != nil {
			return domain.Geometry{}, domain.Invalid(op, "polygon coordinates must be rings of [x, y] pairs")
		}
		if len(rings) == 0 || len(rings[0]) < 3 {
			return domain.Geometry{}, domain.Invalid(op, "polygon needs at least three points")
		}
		// Only the exterior ring is priced; holes are not drawable.
		return domain.PolygonGeometry(toPoints(rings[0])), nil

	case domain.GeometryKindLineString:
		var coords [][2]float64
		if err := json.Unmarshal(payload.Coordinates, &coords); err != nil {
			return domain.Geometry{}, domain.Invalid(op, "line coordinates must be [x, y] pairs")
		}
		if len(coords) < 2 {
			return domain.Geometry{}, domain.Invalid(op, "line needs at least two points")
		}
		return domain.LineGeometry(toPoints(coords)), nil

	default:
		return domain.Geometry{}, domain.Invalid(op, "geometry type must be Polygon or LineString")
	}
}

func toPoints(coords [][2]float64) []orb.Point {
	points := make([]orb.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, orb.Point{c[0], c[1]})
	}
	return points
}
