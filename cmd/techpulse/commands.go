// ABOUTME: Cobra command tree for the TechPulse CLI
// ABOUTME: Every command loads configuration, builds the app and prints JSON results

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"techpulse-app/core/domain"
	"techpulse-app/core/sources"
	"techpulse-app/core/workers"
	"techpulse-app/pkg/config"
)

var configPath string

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "techpulse",
		Short: "TechPulse feed ingestion",
		Long: `TechPulse fetches technology news feeds, normalizes and tags their
entries, and stores the resulting articles.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file (default $"+config.ConfigPathEnv+")")

	root.AddCommand(
		versionCmd(),
		serveCmd(),
		refreshCmd(),
		importSourcesCmd(),
		addSourceCmd(),
		deactivateSourceCmd(),
		listSourcesCmd(),
		cleanupCmd(),
		dedupeSourcesCmd(),
	)
	return root
}

// withApp loads configuration, builds the app and closes it after fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "techpulse %s (built %s)\n", Version, BuildTime)
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Ingest every active source once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.pipeline.RunActive(ctx)
				if result != nil {
					if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
}

func importSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-sources FILE",
		Short: "Import sources from a JSON array file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				summary, err := sources.NewImporter(a.store, a.logger).ImportFile(ctx, args[0])
				if summary != nil {
					out := struct {
						*sources.ImportSummary
						Skipped []string `json:"skipped"`
					}{ImportSummary: summary}
					for _, s := range summary.Skipped {
						out.Skipped = append(out.Skipped, s.Error())
					}
					if perr := printJSON(cmd.OutOrStdout(), out); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
}

func addSourceCmd() *cobra.Command {
	var src domain.Source
	var icon string
	cmd := &cobra.Command{
		Use:   "add-source",
		Short: "Add a source after a trial fetch and ingest its latest articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if icon = strings.TrimSpace(icon); icon != "" {
				src.Icon = &icon
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.sources.Add(ctx, src)
				if result != nil {
					if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&src.Name, "name", "", "source name")
	cmd.Flags().StringVar(&src.URL, "url", "", "feed URL")
	cmd.Flags().StringVar(&src.Category, "category", "", "source category")
	cmd.Flags().StringVar(&icon, "icon", "", "optional icon URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func deactivateSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate-source NAME",
		Short: "Stop ingesting a source; its articles are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.sources.Deactivate(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s\n", args[0])
				return nil
			})
		},
	}
}

func listSourcesCmd() *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list-sources",
		Short: "List configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				list, err := a.sources.List(ctx, activeOnly)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only list active sources")
	return cmd
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete articles older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.retention().Sweep(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired articles\n", n)
				return nil
			})
		},
	}
}

func dedupeSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe-sources",
		Short: "Remove sources that share a feed URL and their orphaned articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				report, err := a.sources.Dedupe(ctx)
				if report != nil {
					if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
}

func (a *app) retention() *workers.RetentionWorker {
	return workers.NewRetentionWorker(a.store, a.deps, workers.RetentionConfig{
		Retention: a.cfg.RetentionWindow(),
		Interval:  a.cfg.RetentionInterval(),
	})
}
