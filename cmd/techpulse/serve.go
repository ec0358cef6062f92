// ABOUTME: Long-running mode: scheduled refreshes, retention sweeps, metrics and the admin API
// ABOUTME: Shuts down cleanly on SIGINT or SIGTERM

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"techpulse-app/api"
	"techpulse-app/api/handlers"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled ingestion until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return withApp(cmd, serve)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	retention := a.retention()
	if err := retention.Start(ctx); err != nil {
		return err
	}
	defer retention.Stop()

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	id, err := scheduler.AddFunc(a.cfg.Ingest.Schedule, func() { a.refresh(ctx) })
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// first refresh goes through the wrapped job so it cannot overlap a scheduled one
	go scheduler.Entry(id).WrappedJob.Run()

	var servers []*http.Server
	if a.metrics != nil {
		servers = append(servers, a.metricsServer())
	}
	if a.cfg.API.Enabled {
		servers = append(servers, a.apiServer())
	}
	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("HTTP server failed", map[string]interface{}{
					"address": srv.Addr,
					"error":   err.Error(),
				})
			}
		}(srv)
	}

	a.logger.Info("TechPulse running", map[string]interface{}{
		"schedule":        a.cfg.Ingest.Schedule,
		"metrics_enabled": a.metrics != nil,
		"api_enabled":     a.cfg.API.Enabled,
		"api_address":     a.cfg.API.Address,
	})

	<-ctx.Done()
	a.logger.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("HTTP server shutdown failed", map[string]interface{}{
				"address": srv.Addr,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

func (a *app) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              a.cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *app) apiServer() *http.Server {
	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     a.logger,
		RateLimit:  a.cfg.API.RateLimit,
		RateWindow: a.cfg.APIRateWindow(),
		Version:    Version,
	})
	handlers.NewSourceHandler(a.sources).RegisterRoutes(humaAPI)
	handlers.NewIngestHandler(a.pipeline, a.retention(), Version).RegisterRoutes(humaAPI)

	return &http.Server{
		Addr:              a.cfg.API.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// refresh runs one scheduled ingestion; errors are logged, never fatal
func (a *app) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := a.pipeline.RunActive(ctx)
	if err != nil {
		a.logger.Error("Scheduled refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	a.logger.Info("Scheduled refresh complete", map[string]interface{}{
		"run_id":   result.RunID,
		"articles": result.ArticlesProduced,
		"failed":   result.SourcesFailed,
	})
}
