// ABOUTME: Ingestion handlers for the Huma API
// ABOUTME: Triggers refresh runs and retention sweeps, and reports health

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"techpulse-app/core/ingest"
)

// Refresher runs the pipeline over active sources
type Refresher interface {
	RunActive(ctx context.Context) (*ingest.Result, error)
}

// Sweeper deletes expired articles
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// IngestHandler handles ingestion-related HTTP requests
type IngestHandler struct {
	refresher Refresher
	sweeper   Sweeper
	version   string
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(refresher Refresher, sweeper Sweeper, version string) *IngestHandler {
	return &IngestHandler{refresher: refresher, sweeper: sweeper, version: version}
}

// RegisterRoutes registers ingestion and health routes
func (h *IngestHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, h.Health)

	huma.Register(api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/refresh",
		Summary:     "Refresh all active sources",
		Description: "Runs one ingestion pass and returns its per-source results",
		Tags:        []string{"Ingestion"},
	}, h.Refresh)

	huma.Register(api, huma.Operation{
		OperationID: "cleanup",
		Method:      http.MethodPost,
		Path:        "/cleanup",
		Summary:     "Delete expired articles",
		Tags:        []string{"Ingestion"},
	}, h.Cleanup)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body struct {
		Status  string `json:"status" example:"ok"`
		Version string `json:"version"`
	}
}

// Health handles GET /health
func (h *IngestHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Version = h.version
	return out, nil
}

// RefreshOutput defines the output for the Refresh operation
type RefreshOutput struct {
	Body *ingest.Result
}

// Refresh handles POST /refresh
func (h *IngestHandler) Refresh(ctx context.Context, input *struct{}) (*RefreshOutput, error) {
	result, err := h.refresher.RunActive(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &RefreshOutput{Body: result}, nil
}

// CleanupOutput defines the output for the Cleanup operation
type CleanupOutput struct {
	Body struct {
		Deleted int64 `json:"deleted"`
	}
}

// Cleanup handles POST /cleanup
func (h *IngestHandler) Cleanup(ctx context.Context, input *struct{}) (*CleanupOutput, error) {
	n, err := h.sweeper.Sweep(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &CleanupOutput{}
	out.Body.Deleted = n
	return out, nil
}
