// ABOUTME: Request DTOs for source management endpoints
// ABOUTME: Struct tags drive Huma's request validation and OpenAPI schema

package requests

import (
	"strings"

	"techpulse-app/core/domain"
)

// AddSourceRequest is the body of POST /sources
type AddSourceRequest struct {
	Name     string `json:"name" minLength:"1" maxLength:"200" doc:"Unique source name; also selects the provider handler"`
	URL      string `json:"url" format:"uri" doc:"RSS or Atom feed URL"`
	Category string `json:"category" minLength:"1" doc:"Source category"`
	Icon     string `json:"icon,omitempty" doc:"Optional icon URL"`
}

// ToSource converts the request into a domain source
func (r AddSourceRequest) ToSource() domain.Source {
	src := domain.Source{
		Name:     strings.TrimSpace(r.Name),
		URL:      strings.TrimSpace(r.URL),
		Category: strings.TrimSpace(r.Category),
	}
	if icon := strings.TrimSpace(r.Icon); icon != "" {
		src.Icon = &icon
	}
	return src
}
