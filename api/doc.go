// Package api provides the administrative HTTP API for TechPulse.
// It uses the Huma framework on a chi router for OpenAPI documentation
// and request validation.
//
// # Architecture
//
//   - server.go: Huma API configuration, CORS and middleware
//   - handlers/: source management, refresh, cleanup and health endpoints
//   - dto/: request bodies with validation tags
//   - middleware/: request logging with IDs and per-IP rate limiting
//
// The OpenAPI spec is served at /openapi.json and interactive docs at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  60,
//	    RateWindow: time.Minute,
//	})
//	handlers.NewSourceHandler(sourceService).RegisterRoutes(humaAPI)
//	handlers.NewIngestHandler(pipeline, retention, version).RegisterRoutes(humaAPI)
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Validation errors map to 400,
// unknown sources to 404, unreachable feeds to 502 and store failures to 503.
package api
