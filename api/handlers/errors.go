// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	coreerrors "techpulse-app/core/errors"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case coreerrors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case coreerrors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case coreerrors.IsFetch(err):
		// the feed, not this service, failed
		return huma.Error502BadGateway("Feed could not be fetched", err)
	case coreerrors.IsStore(err):
		return huma.Error503ServiceUnavailable("Store unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Operation timed out", err)
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
