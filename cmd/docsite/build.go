package main

import (
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"docsite/internal/build"
	"docsite/internal/config"
	"docsite/internal/output"
	"docsite/internal/storage"
)

func newBuildCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := openSearchDB(cfg)
			if err != nil {
				return err
			}
			if db != nil {
				defer func() {
					_ = db.Close()
				}()
			}

			pipeline, err := newPipeline(cfg, db, false)
			if err != nil {
				return err
			}

			stats, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}
			slog.Info("Site built",
				"out", cfg.OutDir,
				"pages", stats.Pages,
				"sections", stats.Sections,
				"documents", stats.Documents,
				"duration", stats.Duration,
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	flags.BoolVar(&cfg.Sanitize, "sanitize", cfg.Sanitize, "sanitize rendered page bodies")
	flags.StringVar(&cfg.SearchDBPath, "search-db", cfg.SearchDBPath, "also export the search index to this SQLite database")
	return cmd
}

// openSearchDB opens and migrates the configured search database. It returns
// nil when none is configured.
func openSearchDB(cfg *config.Config) (*sql.DB, error) {
	if cfg.SearchDBPath == "" {
		return nil, nil
	}
	if err := cfg.EnsureSearchDBDir(); err != nil {
		return nil, err
	}

	db, err := storage.New(cfg.SearchDBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("Search database initialized", "path", cfg.SearchDBPath)
	return db, nil
}

// newPipeline wires a build pipeline from cfg. db may be nil.
func newPipeline(cfg *config.Config, db *sql.DB, liveReload bool) (*build.Pipeline, error) {
	project, highlighter, err := projectConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts := build.Options{
		Project: project,
		OutDir:  cfg.OutDir,
		Output: output.Options{
			Sanitize:   cfg.Sanitize,
			LiveReload: liveReload,
			Stylesheet: highlighter,
		},
	}
	if db == nil {
		return build.NewPipeline(opts, nil, nil), nil
	}
	return build.NewPipeline(opts, storage.NewPageRepo(db), storage.NewDocumentRepo(db)), nil
}
