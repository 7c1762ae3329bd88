package build

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsite/internal/content"
	"docsite/internal/contextutil"
	"docsite/internal/output"
	"docsite/internal/storage"
)

// ErrIncompleteSite is returned when a Markdown file outside the skipped
// directories did not become a page.
var ErrIncompleteSite = errors.New("markdown files missing from site")

// Options configures a Pipeline.
type Options struct {
	Project content.ProjectConfig
	OutDir  string
	// Output is passed to the output writer as is.
	Output output.Options
}

// Pipeline builds a content tree into an output directory and, when stores
// are configured, exports the search index to SQLite.
type Pipeline struct {
	opts      Options
	pageRepo  storage.PageStore
	documents storage.DocumentStore
}

// NewPipeline creates a build pipeline. pageRepo and documents may both be
// nil, which disables the SQLite export.
func NewPipeline(opts Options, pageRepo storage.PageStore, documents storage.DocumentStore) *Pipeline {
	return &Pipeline{
		opts:      opts,
		pageRepo:  pageRepo,
		documents: documents,
	}
}

// Run performs one full build. Each run gets its own build id, attached to
// the logger in ctx. A failed build leaves the output directory in an
// unspecified state.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	buildID := uuid.New().String()
	logger := contextutil.LoggerFromContext(ctx).With("build_id", buildID)
	ctx = contextutil.WithLogger(ctx, logger)

	logger.InfoContext(ctx, "starting build", "root", p.opts.Project.Root, "out", p.opts.OutDir)

	site, err := content.NewSite(ctx, p.opts.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to build site: %w", err)
	}

	skipped, err := p.checkCoverage(ctx, site)
	if err != nil {
		return nil, err
	}

	writer, err := output.NewWriter(p.opts.OutDir, p.opts.Output)
	if err != nil {
		return nil, err
	}
	written, err := writer.WriteSite(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("failed to write site: %w", err)
	}

	docs := site.Documents()
	stats := &Stats{
		BuildID:      buildID,
		Pages:        written,
		Sections:     countSections(site.Root),
		Documents:    len(docs),
		Content:      computeContentStats(docs),
		SkippedFiles: skipped,
	}

	if p.exportEnabled() {
		changed, err := p.export(ctx, buildID, site)
		if err != nil {
			return nil, err
		}
		stats.ChangedPages = changed
	}

	stats.Duration = time.Since(start)
	logger.InfoContext(ctx, "build completed",
		"pages", stats.Pages,
		"sections", stats.Sections,
		"documents", stats.Documents,
		"changed", stats.ChangedPages,
		"duration", stats.Duration,
	)
	return stats, nil
}

// checkCoverage compares the pages of site with an unfiltered scan of the
// content root. Files below skipped directories are counted and returned;
// any other file missing from the site fails the build with ErrIncompleteSite.
func (p *Pipeline) checkCoverage(ctx context.Context, site *content.Site) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	scanned, err := content.ScanMarkdown(ctx, site.Root.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to scan content root: %w", err)
	}

	built := make(map[string]struct{})
	for _, page := range site.Root.Flatten() {
		built[page.RelPath] = struct{}{}
	}

	skipped := 0
	var missing []string
	for _, f := range scanned {
		if _, ok := built[f.RelPath]; ok {
			continue
		}
		if p.skipped(f.Folder) {
			skipped++
			logger.DebugContext(ctx, "markdown file in skipped directory", "rel_path", f.RelPath)
			continue
		}
		missing = append(missing, f.RelPath)
	}
	logger.DebugContext(ctx, "coverage checked", "scanned", len(scanned), "built", len(built), "skipped", skipped)

	if len(missing) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrIncompleteSite, strings.Join(missing, ", "))
	}
	return skipped, nil
}

// skipped reports whether folder lies below a directory the project skips.
func (p *Pipeline) skipped(folder string) bool {
	if folder == "" {
		return false
	}
	for _, dir := range strings.Split(folder, "/") {
		if p.opts.Project.SkipsDir(dir) {
			return true
		}
	}
	return false
}

func (p *Pipeline) exportEnabled() bool {
	return p.pageRepo != nil && p.documents != nil
}

// export upserts every page, prunes pages that no longer exist and replaces
// the stored search documents. Like the writer it keeps one page per URL. It
// returns the number of new or changed pages.
func (p *Pipeline) export(ctx context.Context, buildID string, site *content.Site) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pages, _ := content.UniqueByURL(site.Pages())
	keep := make([]string, 0, len(pages))
	changed := 0
	for _, page := range pages {
		record := &storage.PageRecord{
			URL:     page.URL,
			RelPath: page.RelPath,
			Title:   page.Title,
			Hash:    pageHash(page),
		}
		isChanged, err := p.pageRepo.Upsert(ctx, record)
		if err != nil {
			return 0, fmt.Errorf("failed to export page %s: %w", page.RelPath, err)
		}
		if isChanged {
			changed++
			logger.DebugContext(ctx, "page changed", "rel_path", page.RelPath, "hash", record.Hash)
		}
		keep = append(keep, page.URL)
	}

	pruned, err := p.pageRepo.Prune(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune pages: %w", err)
	}

	docs := site.Documents()
	records := make([]storage.DocumentRecord, len(docs))
	for i, d := range docs {
		records[i] = storage.DocumentRecord{
			BuildID:   buildID,
			Position:  i,
			Level:     d.Level,
			PageTitle: d.PageTitle,
			Title:     d.Title,
			Content:   d.Content,
		}
	}
	if err := p.documents.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to export search documents: %w", err)
	}

	logger.InfoContext(ctx, "search index exported", "documents", len(records), "changed", changed, "pruned", pruned)
	return changed, nil
}

// pageHash covers everything a page record is derived from.
func pageHash(page *content.Page) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", page.RelPath, page.Title)
	if page.Order != nil {
		fmt.Fprintf(h, "%d", *page.Order)
	}
	h.Write([]byte{0})
	h.Write([]byte(page.Body))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func countSections(sec *content.Section) int {
	n := 1
	for _, child := range sec.Sections {
		n += countSections(child)
	}
	return n
}
