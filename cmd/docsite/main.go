// Command docsite builds a static documentation site from a tree of Markdown
// files.
//
// Usage:
//
//	docsite [command]
//
// Available Commands:
//
//	build       Build the site into the output directory
//	index       Print the search index as JSON
//	serve       Build, serve and rebuild the site on changes
//
// Configuration is read from DOCSITE_* environment variables and an optional
// .env file; command line flags take precedence.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsite/internal/config"
	"docsite/internal/content"
	"docsite/internal/markdown"
)

func main() {
	// Load configuration first (needed for flag defaults and log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newRootCmd(cfg).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "docsite",
		Short:        "static documentation site generator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return setupLogging(cmd.ErrOrStderr(), cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Root, "root", cfg.Root, "content root directory")
	flags.StringVar(&cfg.TitleCase, "title-case", cfg.TitleCase, "casing of titles derived from file names (none, first, title)")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent tasks per content directory")
	flags.StringSliceVar(&cfg.SkipDirs, "skip-dir", cfg.SkipDirs, "directory name to leave out of the content tree (repeatable)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")

	rootCmd.AddCommand(
		newBuildCmd(cfg),
		newIndexCmd(cfg),
		newServeCmd(cfg),
	)
	return rootCmd
}

// setupLogging configures the default slog logger. Logs go to w so that
// command output on stdout stays machine readable.
func setupLogging(w io.Writer, cfg *config.Config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", level.String(), "format", cfg.LogFormat)
	return nil
}

// projectConfig derives the content configuration from cfg.
func projectConfig(cfg *config.Config) (content.ProjectConfig, *markdown.ChromaHighlighter, error) {
	titleCase, err := content.ParseTitleCase(cfg.TitleCase)
	if err != nil {
		return content.ProjectConfig{}, nil, err
	}

	highlighter := markdown.NewChromaHighlighter(cfg.HighlightStyle)
	return content.ProjectConfig{
		Root:        cfg.Root,
		TitleCase:   titleCase,
		Workers:     cfg.Workers,
		Highlighter: highlighter,
		SkipDirs:    cfg.SkipDirs,
	}, highlighter, nil
}
