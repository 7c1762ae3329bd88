package content

import (
	"context"
	"fmt"
	"path/filepath"

	"docsite/internal/search"
)

// Site is the content tree of a project.
type Site struct {
	Root *Section
}

// NewSite builds the site from cfg.Root. The root path is made absolute
// first so the root section's derived title comes from its real name.
func NewSite(ctx context.Context, cfg ProjectConfig) (*Site, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root

	section, err := NewSection(ctx, root, nil, cfg)
	if err != nil {
		return nil, err
	}
	return &Site{Root: section}, nil
}

// Pages returns every page of the site sorted with Compare.
func (s *Site) Pages() []*Page {
	pages := s.Root.Flatten()
	SortPages(pages)
	return pages
}

// Documents returns the search documents of every page, in Pages order.
func (s *Site) Documents() search.Index {
	var docs search.Index
	for _, p := range s.Pages() {
		docs = append(docs, p.SearchIndex...)
	}
	return docs
}

// PrevNext returns the pages before and after page in Pages order. Either is
// nil at the ends, and both are nil for a page not in the site.
func (s *Site) PrevNext(page *Page) (prev, next *Link) {
	pages := s.Pages()
	for i, p := range pages {
		if p.Path == page.Path {
			return Neighbors(pages, i)
		}
	}
	return nil, nil
}

// Neighbors returns links to the pages around pages[i]. Callers rendering
// every page use it with a list computed once.
func Neighbors(pages []*Page, i int) (prev, next *Link) {
	if i > 0 {
		prev = pageLink(pages[i-1])
	}
	if i < len(pages)-1 {
		next = pageLink(pages[i+1])
	}
	return prev, next
}

// UniqueByURL keeps the first page of every URL in order. "a.md" and
// "a/index.md" both map to "/a"; the later one is returned in dropped.
func UniqueByURL(pages []*Page) (kept, dropped []*Page) {
	seen := make(map[string]struct{}, len(pages))
	kept = make([]*Page, 0, len(pages))
	for _, p := range pages {
		if _, ok := seen[p.URL]; ok {
			dropped = append(dropped, p)
			continue
		}
		seen[p.URL] = struct{}{}
		kept = append(kept, p)
	}
	return kept, dropped
}

func pageLink(p *Page) *Link {
	return &Link{Path: p.Path, URL: p.URL, Title: p.Title}
}

// Attrs is the navigation projection of a site consumed by templates.
type Attrs struct {
	Title    string         `json:"title"`
	Sections []SectionAttrs `json:"sections"`
}

// SectionAttrs is the navigation projection of a section.
type SectionAttrs struct {
	Title    string         `json:"title"`
	URL      string         `json:"url"`
	Pages    []PageAttrs    `json:"pages,omitempty"`
	Sections []SectionAttrs `json:"sections,omitempty"`
}

// PageAttrs is the navigation projection of a page.
type PageAttrs struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Attrs returns a fresh navigation snapshot. The root section is the single
// top-level entry.
func (s *Site) Attrs() Attrs {
	return Attrs{
		Title:    s.Root.Title,
		Sections: []SectionAttrs{sectionAttrs(s.Root)},
	}
}

func sectionAttrs(sec *Section) SectionAttrs {
	a := SectionAttrs{Title: sec.Title, URL: sec.URL}
	for _, p := range sec.Pages {
		a.Pages = append(a.Pages, PageAttrs{Title: p.Title, URL: p.URL})
	}
	for _, child := range sec.Sections {
		a.Sections = append(a.Sections, sectionAttrs(child))
	}
	return a
}
