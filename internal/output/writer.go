package output

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"docsite/internal/content"
	"docsite/internal/contextutil"
	"docsite/internal/search"
)

const (
	// SearchIndexFile is the name of the search index written to the output root.
	SearchIndexFile = "search.json"
	// StylesheetFile is the name of the generated stylesheet.
	StylesheetFile = "style.css"
)

//go:embed templates/page.html
var templateFS embed.FS

// Stylesheet writes the CSS that styles highlighted code.
type Stylesheet interface {
	WriteCSS(w io.Writer) error
}

// Options configures a Writer.
type Options struct {
	// Sanitize runs every page body through the UGC sanitizer policy.
	Sanitize bool
	// LiveReload adds the client script that reloads pages on "reload" messages.
	LiveReload bool
	// Stylesheet is written to StylesheetFile when set.
	Stylesheet Stylesheet
}

// Writer writes a built site to an output directory.
type Writer struct {
	outDir string
	tmpl   *template.Template
	policy *bluemonday.Policy
	opts   Options
}

// pageData is the template input of a single page.
type pageData struct {
	Site       content.Attrs
	Page       *content.Page
	Body       template.HTML
	Prev       *content.Link
	Next       *content.Link
	Stylesheet string
	LiveReload bool
}

// NewWriter creates a Writer targeting outDir.
func NewWriter(outDir string, opts Options) (*Writer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	w := &Writer{outDir: outDir, tmpl: tmpl, opts: opts}
	if opts.Sanitize {
		w.policy = newPolicy()
	}
	return w, nil
}

// newPolicy allows user generated content plus the id and class attributes
// that heading anchors, admonitions and highlighted code depend on.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id", "class").Globally()
	p.AllowAttrs("title").OnElements("img", "a")
	p.AllowElements("figure")
	return p
}

// WriteSite writes every page, the search index and the stylesheet. Of pages
// sharing a URL only the first in site order is written. It returns the
// number of pages written.
func (w *Writer) WriteSite(ctx context.Context, site *content.Site) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	attrs := site.Attrs()
	pages, dropped := content.UniqueByURL(site.Pages())
	for _, page := range dropped {
		logger.WarnContext(ctx, "pages share a URL, skipping", "url", page.URL, "skipped", page.RelPath)
	}

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		prevLink, nextLink := content.Neighbors(pages, i)
		if err := w.writePage(PagePath(w.outDir, page.URL), pageData{
			Site:       attrs,
			Page:       page,
			Body:       template.HTML(w.body(page)),
			Prev:       prevLink,
			Next:       nextLink,
			Stylesheet: StylesheetFile,
			LiveReload: w.opts.LiveReload,
		}); err != nil {
			return 0, fmt.Errorf("failed to write page %s: %w", page.RelPath, err)
		}
	}

	if err := w.writeFile(SearchIndexFile, func(f io.Writer) error {
		return WriteSearchIndex(f, site.Documents())
	}); err != nil {
		return 0, err
	}

	if w.opts.Stylesheet != nil {
		if err := w.writeFile(StylesheetFile, w.opts.Stylesheet.WriteCSS); err != nil {
			return 0, err
		}
	}

	logger.DebugContext(ctx, "site written", "out", w.outDir, "pages", len(pages))
	return len(pages), nil
}

func (w *Writer) body(page *content.Page) string {
	if w.policy == nil {
		return page.HTML
	}
	return w.policy.Sanitize(page.HTML)
}

func (w *Writer) writePage(dest string, data pageData) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := w.tmpl.Execute(f, data); err != nil {
		return err
	}
	return f.Close()
}

func (w *Writer) writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(w.outDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

// PagePath maps a page URL to its file below outDir: "/" is outDir/index.html
// and "/a/b" is outDir/a/b/index.html.
func PagePath(outDir, url string) string {
	rel := strings.Trim(url, "/")
	return filepath.Join(outDir, filepath.FromSlash(rel), "index.html")
}

// WriteSearchIndex encodes docs as an indented JSON array.
func WriteSearchIndex(w io.Writer, docs search.Index) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
