package handlers

import (
	"context"

	"techpulse-app/core/domain"
	"techpulse-app/core/ingest"
	"techpulse-app/core/sources"
)

type mockSourceService struct {
	addFunc        func(ctx context.Context, source domain.Source) (*sources.AddResult, error)
	deactivateFunc func(ctx context.Context, name string) error
	listFunc       func(ctx context.Context, activeOnly bool) ([]*domain.Source, error)
	dedupeFunc     func(ctx context.Context) (*sources.DedupeReport, error)
}

func (m *mockSourceService) Add(ctx context.Context, source domain.Source) (*sources.AddResult, error) {
	return m.addFunc(ctx, source)
}

func (m *mockSourceService) Deactivate(ctx context.Context, name string) error {
	return m.deactivateFunc(ctx, name)
}

func (m *mockSourceService) List(ctx context.Context, activeOnly bool) ([]*domain.Source, error) {
	return m.listFunc(ctx, activeOnly)
}

func (m *mockSourceService) Dedupe(ctx context.Context) (*sources.DedupeReport, error) {
	return m.dedupeFunc(ctx)
}

type mockRefresher struct {
	runFunc func(ctx context.Context) (*ingest.Result, error)
}

func (m *mockRefresher) RunActive(ctx context.Context) (*ingest.Result, error) {
	return m.runFunc(ctx)
}

type mockSweeper struct {
	sweepFunc func(ctx context.Context) (int64, error)
}

func (m *mockSweeper) Sweep(ctx context.Context) (int64, error) {
	return m.sweepFunc(ctx)
}
