package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"docsite/internal/build"
	"docsite/internal/config"
	"docsite/internal/http"
	"docsite/internal/storage"
	"docsite/internal/watch"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, serve and rebuild the site on changes",
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

			pipeline, err := newPipeline(cfg, db, !noWatch)
			if err != nil {
				return err
			}
			if _, err := pipeline.Run(ctx); err != nil {
				return err
			}

			deps := &http.Deps{OutDir: cfg.OutDir}
			if db != nil {
				deps.Documents = storage.NewDocumentRepo(db)
			}
			if !noWatch {
				deps.LiveReload = http.NewLiveReload()
				defer deps.LiveReload.Close()

				watcher, err := watch.New(cfg.Root, cfg.SkipDirs, watch.DefaultDebounce, rebuildAndReload(pipeline, deps.LiveReload))
				if err != nil {
					return err
				}
				defer func() {
					_ = watcher.Close()
				}()
				go func() {
					if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						slog.Error("Watcher stopped", "error", err)
					}
				}()
				slog.Info("Watching for changes", "root", cfg.Root, "dirs", len(watcher.WatchList()))
			}

			return serve(ctx, cfg.Addr, http.NewRouter(deps))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory")
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flags.StringVar(&cfg.SearchDBPath, "search-db", cfg.SearchDBPath, "export the search index to this SQLite database and serve /api/search")
	flags.BoolVar(&noWatch, "no-watch", false, "serve the site without watching for changes")
	return cmd
}

// rebuildAndReload rebuilds the site and, when that succeeds, tells every
// browser to reload.
func rebuildAndReload(p *build.Pipeline, reload *http.LiveReload) watch.RebuildFunc {
	return func(ctx context.Context) error {
		stats, err := p.Run(ctx)
		if err != nil {
			return err
		}
		clients := reload.Reload()
		slog.InfoContext(ctx, "Site rebuilt", "pages", stats.Pages, "duration", stats.Duration, "reloaded", clients)
		return nil
	}
}

// serve runs an HTTP server until ctx is cancelled.
func serve(ctx context.Context, addr string, handler nethttp.Handler) error {
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
