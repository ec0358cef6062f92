// ABOUTME: Source service manages the lifecycle of configured feeds
// ABOUTME: Adds sources after a trial fetch, deactivates them and removes URL duplicates

package sources

import (
	"context"
	"errors"
	"sort"

	"techpulse-app/core/domain"
	coreerrors "techpulse-app/core/errors"
	"techpulse-app/core/ingest"
	"techpulse-app/core/interfaces"
)

// InitialArticles is how many articles are ingested when a source is added
const InitialArticles = 10

// SourceRunner ingests a single source
type SourceRunner interface {
	RunSource(ctx context.Context, source domain.Source, maxArticles int) ingest.SourceResult
}

// Service manages sources
type Service struct {
	store    interfaces.SourceStore
	articles interfaces.ArticleStore
	fetcher  ingest.EntryFetcher
	runner   SourceRunner
	logger   interfaces.Logger
}

// NewService creates a source service. fetcher and runner are only needed by Add.
func NewService(deps interfaces.Dependencies, store interfaces.SourceStore, articles interfaces.ArticleStore, fetcher ingest.EntryFetcher, runner SourceRunner) *Service {
	return &Service{
		store:    store,
		articles: articles,
		fetcher:  fetcher,
		runner:   runner,
		logger:   interfaces.LoggerOrNop(deps.Logger),
	}
}

// AddResult describes a newly added source
type AddResult struct {
	Source   *domain.Source      `json:"source"`
	Ingested ingest.SourceResult `json:"ingested"`
}

// Add validates a source by fetching it, saves it, then ingests its first articles.
// Unreachable feeds and feeds without entries are rejected.
func (s *Service) Add(ctx context.Context, source domain.Source) (*AddResult, error) {
	if err := source.Validate(); err != nil {
		return nil, &coreerrors.ValidationError{Field: "source", Message: err.Error()}
	}
	if s.fetcher == nil || s.runner == nil {
		return nil, errors.New("sources: add requires a fetcher and a runner")
	}

	entries, err := s.fetcher.FetchEntries(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &coreerrors.ValidationError{Field: "url", Message: "feed has no entries"}
	}

	source.Active = true
	if err := s.store.SaveSource(ctx, &source); err != nil {
		return nil, &coreerrors.StoreError{Op: "save source", Err: err}
	}
	s.logger.Info("Source added", map[string]interface{}{
		"name":    source.Name,
		"url":     source.URL,
		"entries": len(entries),
	})

	res := s.runner.RunSource(ctx, source, InitialArticles)
	if res.Err != nil {
		return &AddResult{Source: &source, Ingested: res}, res.Err
	}
	return &AddResult{Source: &source, Ingested: res}, nil
}

// Deactivate marks a source inactive; its articles are kept
func (s *Service) Deactivate(ctx context.Context, name string) error {
	existing, err := s.store.GetSource(ctx, name)
	if err != nil {
		return &coreerrors.StoreError{Op: "get source", Err: err}
	}
	if existing == nil {
		return &coreerrors.NotFoundError{Resource: "source", ID: name}
	}
	if err := s.store.SetActive(ctx, name, false); err != nil {
		return &coreerrors.StoreError{Op: "deactivate source", Err: err}
	}
	s.logger.Info("Source deactivated", map[string]interface{}{
		"name": name,
	})
	return nil
}

// List returns the configured sources
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*domain.Source, error) {
	list, err := s.store.ListSources(ctx, activeOnly)
	if err != nil {
		return nil, &coreerrors.StoreError{Op: "list sources", Err: err}
	}
	return list, nil
}

// DedupeReport lists what Dedupe removed
type DedupeReport struct {
	// Kept maps the surviving source name to the names removed in its favor
	Kept           map[string][]string `json:"kept"`
	Removed        []string            `json:"removed"`
	OrphansDeleted int64               `json:"orphan_articles_deleted"`
}

// Dedupe removes sources that point at the same normalized URL, keeping the
// shortest name of each group, then deletes articles left without a source.
func (s *Service) Dedupe(ctx context.Context) (*DedupeReport, error) {
	list, err := s.store.ListSources(ctx, false)
	if err != nil {
		return nil, &coreerrors.StoreError{Op: "list sources", Err: err}
	}

	groups := make(map[string][]*domain.Source)
	var order []string
	for _, src := range list {
		key := src.NormalizedURL()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], src)
	}

	report := &DedupeReport{Kept: make(map[string][]string)}
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return len(group[i].Name) < len(group[j].Name)
		})
		keep := group[0]
		for _, dup := range group[1:] {
			if err := s.store.DeleteSource(ctx, dup.Name); err != nil {
				return report, &coreerrors.StoreError{Op: "delete source", Err: err}
			}
			report.Removed = append(report.Removed, dup.Name)
			report.Kept[keep.Name] = append(report.Kept[keep.Name], dup.Name)
		}
		s.logger.Info("Removed duplicate sources", map[string]interface{}{
			"kept":    keep.Name,
			"removed": report.Kept[keep.Name],
			"url":     keep.URL,
		})
	}

	if len(report.Removed) == 0 {
		return report, nil
	}

	if s.articles != nil {
		n, err := s.articles.DeleteArticlesWithoutSource(ctx)
		if err != nil {
			return report, &coreerrors.StoreError{Op: "delete orphan articles", Err: err}
		}
		report.OrphansDeleted = n
	}
	return report, nil
}
