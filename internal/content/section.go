package content

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/sourcegraph/conc/pool"

	"docsite/internal/contextutil"
)

// Section is a content directory: its own pages and its subdirectories.
type Section struct {
	Path    string `json:"path"`
	RelPath string `json:"relative_path"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	// Order is the explicit _dir.yaml order, nil when absent.
	Order    *int       `json:"order,omitempty"`
	Pages    []*Page    `json:"pages,omitempty"`
	Sections []*Section `json:"sections,omitempty"`
}

// NewSection builds the section rooted at dir. parent is the breadcrumb of the
// enclosing sections; the section appends itself before building its pages
// and children. A directory without Markdown files is an error, even if its
// subdirectories hold pages.
//
// Pages and subdirectories are built concurrently, at most cfg.Workers at a
// time per directory. The first failure cancels the remaining work.
func NewSection(ctx context.Context, dir string, parent []Link, cfg ProjectConfig) (*Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	relDir, err := relativePath(cfg.Root, dir)
	if err != nil {
		return nil, wrapPath("section", dir, err)
	}

	meta, err := readSectionMeta(dir)
	if err != nil {
		return nil, wrapPath("read section", filepath.Join(dir, SectionMetaFile), err)
	}
	title, err := sectionTitle(meta, dir, cfg.TitleCase)
	if err != nil {
		return nil, err
	}

	files, dirs, err := listDir(dir, cfg)
	if err != nil {
		return nil, wrapPath("read section", dir, err)
	}
	if len(files) == 0 {
		return nil, &PathError{Op: "section", Path: dir, Err: ErrNoPages}
	}

	s := &Section{
		Path:     dir,
		RelPath:  relDir,
		URL:      dirURL(relDir),
		Title:    title,
		Order:    meta.Order,
		Pages:    make([]*Page, len(files)),
		Sections: make([]*Section, len(dirs)),
	}

	// Each section gets its own copy so siblings never share a backing array.
	breadcrumb := append(slices.Clip(parent), Link{Path: dir, URL: s.URL, Title: title})

	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "building section", "section", dir, "pages", len(files), "subsections", len(dirs))

	p := pool.New().
		WithMaxGoroutines(cfg.workers()).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, name := range files {
		i, name := i, name
		p.Go(func(ctx context.Context) error {
			page, err := NewPage(ctx, filepath.Join(dir, name), breadcrumb, cfg)
			if err != nil {
				return err
			}
			s.Pages[i] = page
			return nil
		})
	}
	for i, name := range dirs {
		i, name := i, name
		p.Go(func(ctx context.Context) error {
			child, err := NewSection(ctx, filepath.Join(dir, name), breadcrumb, cfg)
			if err != nil {
				return err
			}
			s.Sections[i] = child
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	SortPages(s.Pages)
	slices.SortStableFunc(s.Sections, compareSections)
	if len(s.Sections) == 0 {
		s.Sections = nil
	}
	return s, nil
}

// Flatten returns the section's own pages followed by the flattened pages of
// each child section, depth first.
func (s *Section) Flatten() []*Page {
	pages := slices.Clone(s.Pages)
	for _, child := range s.Sections {
		pages = append(pages, child.Flatten()...)
	}
	return pages
}

func (s *Section) rank() int {
	if s.Order != nil {
		return *s.Order
	}
	return 1
}

// listDir returns the Markdown files and subdirectories of dir, in name
// order. Only directories named in cfg.SkipDirs are left out.
func listDir(dir string, cfg ProjectConfig) (files, dirs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			if !cfg.SkipsDir(name) {
				dirs = append(dirs, name)
			}
		case isMarkdown(name):
			files = append(files, name)
		}
	}
	return files, dirs, nil
}
