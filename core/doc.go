// Package core contains the ingestion logic for TechPulse.
// It is framework-agnostic and can be used independently of the CLI,
// the admin API or any particular store.
//
// The core package is organized into several sub-packages:
//
//   - domain: Source, RawEntry, Article and Tag models
//   - feed: feed fetching, decoding and per-provider normalization
//   - tagging: the tag engine and its strategies
//   - ingest: the concurrent ingestion pipeline
//   - sources: source import, add, deactivate and dedupe
//   - workers: the article retention worker
//   - errors: error types that classify fetch, entry, import and store failures
//   - interfaces: contracts for external dependencies (cache, HTTP, logger, stores, extractors)
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	feeds := feed.NewFeedService(deps)
//	engine := tagging.NewEngine(deps)
//	pipeline, err := ingest.NewPipeline(deps, feeds, feeds.Normalizer(), engine, store)
//	if err != nil {
//	    return err
//	}
//	defer pipeline.Release()
//
//	result, err := pipeline.Run(ctx, sources)
package core
