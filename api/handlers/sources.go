// ABOUTME: Source handlers for the Huma API
// ABOUTME: Lists, adds, deactivates and deduplicates feed sources

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"techpulse-app/api/dto/requests"
	"techpulse-app/core/domain"
	"techpulse-app/core/sources"
)

// SourceService defines the methods needed from the source service
type SourceService interface {
	Add(ctx context.Context, source domain.Source) (*sources.AddResult, error)
	Deactivate(ctx context.Context, name string) error
	List(ctx context.Context, activeOnly bool) ([]*domain.Source, error)
	Dedupe(ctx context.Context) (*sources.DedupeReport, error)
}

// SourceHandler handles source-related HTTP requests
type SourceHandler struct {
	service SourceService
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(service SourceService) *SourceHandler {
	return &SourceHandler{service: service}
}

// RegisterRoutes registers all source routes
func (h *SourceHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listSources",
		Method:      http.MethodGet,
		Path:        "/sources",
		Summary:     "List sources",
		Tags:        []string{"Sources"},
	}, h.ListSources)

	huma.Register(api, huma.Operation{
		OperationID:   "addSource",
		Method:        http.MethodPost,
		Path:          "/sources",
		Summary:       "Add a source",
		Description:   "Fetches the feed once to validate it, saves the source and ingests its latest articles",
		Tags:          []string{"Sources"},
		DefaultStatus: http.StatusCreated,
	}, h.AddSource)

	huma.Register(api, huma.Operation{
		OperationID:   "deactivateSource",
		Method:        http.MethodPost,
		Path:          "/sources/{name}/deactivate",
		Summary:       "Deactivate a source",
		Description:   "Stops scheduled ingestion of the source; its articles are kept",
		Tags:          []string{"Sources"},
		DefaultStatus: http.StatusNoContent,
	}, h.DeactivateSource)

	huma.Register(api, huma.Operation{
		OperationID: "dedupeSources",
		Method:      http.MethodPost,
		Path:        "/sources/dedupe",
		Summary:     "Remove duplicate sources",
		Description: "Keeps the shortest-named source per feed URL and deletes articles left without a source",
		Tags:        []string{"Sources"},
	}, h.DedupeSources)
}

// ListSourcesInput defines the input for the ListSources operation
type ListSourcesInput struct {
	Active bool `query:"active" doc:"Only return active sources"`
}

// ListSourcesOutput defines the output for the ListSources operation
type ListSourcesOutput struct {
	Body struct {
		Sources []*domain.Source `json:"sources"`
	}
}

// ListSources handles GET /sources
func (h *SourceHandler) ListSources(ctx context.Context, input *ListSourcesInput) (*ListSourcesOutput, error) {
	list, err := h.service.List(ctx, input.Active)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &ListSourcesOutput{}
	out.Body.Sources = list
	if out.Body.Sources == nil {
		out.Body.Sources = []*domain.Source{}
	}
	return out, nil
}

// AddSourceInput defines the input for the AddSource operation
type AddSourceInput struct {
	Body requests.AddSourceRequest
}

// AddSourceOutput defines the output for the AddSource operation
type AddSourceOutput struct {
	Body *sources.AddResult
}

// AddSource handles POST /sources
func (h *SourceHandler) AddSource(ctx context.Context, input *AddSourceInput) (*AddSourceOutput, error) {
	result, err := h.service.Add(ctx, input.Body.ToSource())
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AddSourceOutput{Body: result}, nil
}

// DeactivateSourceInput defines the input for the DeactivateSource operation
type DeactivateSourceInput struct {
	Name string `path:"name" doc:"Source name"`
}

// DeactivateSource handles POST /sources/{name}/deactivate
func (h *SourceHandler) DeactivateSource(ctx context.Context, input *DeactivateSourceInput) (*struct{}, error) {
	if err := h.service.Deactivate(ctx, input.Name); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

// DedupeSourcesOutput defines the output for the DedupeSources operation
type DedupeSourcesOutput struct {
	Body *sources.DedupeReport
}

// DedupeSources handles POST /sources/dedupe
func (h *SourceHandler) DedupeSources(ctx context.Context, input *struct{}) (*DedupeSourcesOutput, error) {
	report, err := h.service.Dedupe(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &DedupeSourcesOutput{Body: report}, nil
}
