package content

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"docsite/internal/contextutil"
	"docsite/internal/markdown"
	"docsite/internal/search"
	"docsite/internal/toc"
)

const indexFile = "index.md"

// ProjectConfig is the build configuration threaded through page and section
// construction.
type ProjectConfig struct {
	// Root is the content root. Relative paths and URLs are computed against it.
	Root      string
	TitleCase TitleCase
	// Workers bounds the concurrent tasks of each directory. Values below 1 mean 1.
	Workers     int
	Highlighter markdown.Highlighter
	// SkipDirs names directories, matched by exact base name, that are not
	// part of the content tree (".git" for example). Every other directory is
	// a section.
	SkipDirs []string
}

func (c ProjectConfig) workers() int {
	return max(c.Workers, 1)
}

// SkipsDir reports whether directories called name are left out of the site.
func (c ProjectConfig) SkipsDir(name string) bool {
	return slices.Contains(c.SkipDirs, name)
}

// Link is a breadcrumb entry: an ancestor directory and its title.
type Link struct {
	Path  string `json:"path"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Page is a parsed Markdown file.
type Page struct {
	Path        string              `json:"path"`
	RelPath     string              `json:"relative_path"`
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	Body        string              `json:"-"`
	HTML        string              `json:"html"`
	Breadcrumb  []Link              `json:"breadcrumb"`
	TOC         toc.TableOfContents `json:"table_of_contents"`
	SearchIndex search.Index        `json:"search_index"`
	// Order is the explicit front matter order, nil when absent.
	Order *int `json:"order,omitempty"`
}

// NewPage reads and parses the Markdown file at p. breadcrumb lists the
// enclosing sections from the root down, including the page's own directory.
func NewPage(ctx context.Context, p string, breadcrumb []Link, cfg ProjectConfig) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	relPath, err := relativePath(cfg.Root, p)
	if err != nil {
		return nil, wrapPath("page", p, err)
	}

	data, err := readContent(p)
	if err != nil {
		return nil, wrapPath("read page", p, err)
	}

	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, wrapPath("parse page", p, err)
	}

	doc := markdown.Parse(body)
	title := pageTitle(fm, doc, p, cfg.TitleCase)

	logger := contextutil.LoggerFromContext(ctx).With("page", relPath)
	ctx = contextutil.WithLogger(ctx, logger)

	page := &Page{
		Path:        p,
		RelPath:     relPath,
		URL:         pageURL(relPath),
		Title:       title,
		Body:        string(body),
		HTML:        markdown.NewRenderer(cfg.Highlighter).Render(ctx, doc),
		Breadcrumb:  breadcrumb,
		TOC:         toc.FromDocument(doc),
		SearchIndex: search.Extract(title, doc),
		Order:       fm.Order,
	}

	logger.DebugContext(ctx, "page built", "title", title, "url", page.URL)
	return page, nil
}

// IsIndex reports whether the page is the site's root index.md.
func (p *Page) IsIndex() bool {
	return p.RelPath == indexFile
}

// rank is the primary sort key: 0 for the root index, else the explicit
// order, else 1.
func (p *Page) rank() int {
	if p.IsIndex() {
		return 0
	}
	if p.Order != nil {
		return *p.Order
	}
	return 1
}

// relativePath returns p relative to root with forward slashes.
func relativePath(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", errors.Join(ErrOutsideRoot, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrOutsideRoot
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// pageURL maps "guide/setup.md" to "/guide/setup" and "guide/index.md" to "/guide".
func pageURL(relPath string) string {
	u := strings.TrimSuffix(relPath, path.Ext(relPath))
	if u == "index" {
		return "/"
	}
	u = strings.TrimSuffix(u, "/index")
	return "/" + u
}

// dirURL maps a slash-separated directory path relative to the root to its URL.
func dirURL(relDir string) string {
	if relDir == "" {
		return "/"
	}
	return "/" + relDir
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
