package content

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewPage(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":          "# Welcome\n\nIntro.\n\n## Start\n\nGo.\n",
		"front.md":          "---\ntitle: From Front\norder: 2\n---\n# Heading Title\n",
		"heading.md":        "Preamble.\n\n# Heading Title\n",
		"no-title-here.md":  "## Only h2\n",
		"guide/index.md":    "# Guide\n",
		"guide/setup.md":    "Setup.\n",
		"untitled-front.md": "---\ntitle: \"  \"\n---\nText.\n",
	})
	cfg := testConfig(root)

	tests := []struct {
		file      string
		wantTitle string
		wantURL   string
		wantRel   string
		wantIndex bool
		wantRank  int
	}{
		{file: "index.md", wantTitle: "Welcome", wantURL: "/", wantRel: "index.md", wantIndex: true, wantRank: 0},
		{file: "front.md", wantTitle: "From Front", wantURL: "/front", wantRel: "front.md", wantRank: 2},
		{file: "heading.md", wantTitle: "Heading Title", wantURL: "/heading", wantRel: "heading.md", wantRank: 1},
		{file: "no-title-here.md", wantTitle: "No title here", wantURL: "/no-title-here", wantRel: "no-title-here.md", wantRank: 1},
		{file: "guide/index.md", wantTitle: "Guide", wantURL: "/guide", wantRel: "guide/index.md", wantRank: 1},
		{file: "guide/setup.md", wantTitle: "Setup", wantURL: "/guide/setup", wantRel: "guide/setup.md", wantRank: 1},
		{file: "untitled-front.md", wantTitle: "Untitled front", wantURL: "/untitled-front", wantRel: "untitled-front.md", wantRank: 1},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			page, err := NewPage(context.Background(), filepath.Join(root, tt.file), nil, cfg)
			if err != nil {
				t.Fatalf("NewPage() error = %v", err)
			}
			if page.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", page.Title, tt.wantTitle)
			}
			if page.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", page.URL, tt.wantURL)
			}
			if page.RelPath != tt.wantRel {
				t.Errorf("RelPath = %q, want %q", page.RelPath, tt.wantRel)
			}
			if page.IsIndex() != tt.wantIndex {
				t.Errorf("IsIndex() = %v, want %v", page.IsIndex(), tt.wantIndex)
			}
			if page.rank() != tt.wantRank {
				t.Errorf("rank() = %d, want %d", page.rank(), tt.wantRank)
			}
		})
	}
}

func TestNewPage_DerivedFields(t *testing.T) {
	root := writeTree(t, map[string]string{
		"doc.md": "---\ntitle: Doc\n---\nIntro text.\n\n## Section A\n\nBody A.\n\n### Sub\n\nMore.\n",
	})
	breadcrumb := []Link{{Path: root, URL: "/", Title: "Docs"}}

	page, err := NewPage(context.Background(), filepath.Join(root, "doc.md"), breadcrumb, testConfig(root))
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}

	if strings.HasPrefix(page.Body, "---") {
		t.Errorf("Body still contains front matter: %q", page.Body)
	}
	if !strings.Contains(page.HTML, `<h2 id="section-a">`) {
		t.Errorf("HTML = %q, want section-a heading", page.HTML)
	}
	if len(page.TOC) != 1 || page.TOC[0].Slug != "section-a" || len(page.TOC[0].Children) != 1 {
		t.Errorf("TOC = %+v, want section-a with one child", page.TOC)
	}
	if len(page.SearchIndex) != 3 {
		t.Fatalf("SearchIndex has %d documents, want 3", len(page.SearchIndex))
	}
	if got := page.SearchIndex[0]; got.Title != "Doc" || got.Content != "Intro text." {
		t.Errorf("SearchIndex[0] = %+v, want preamble under page title", got)
	}
	if len(page.Breadcrumb) != 1 || page.Breadcrumb[0].Title != "Docs" {
		t.Errorf("Breadcrumb = %+v, want the supplied chain", page.Breadcrumb)
	}
}

func TestNewPage_Errors(t *testing.T) {
	root := writeTree(t, map[string]string{
		"zero.md":   "---\norder: 0\n---\n# Zero\n",
		"broken.md": "---\ntitle: [\n---\n",
	})
	outside := writeTree(t, map[string]string{"elsewhere.md": "# Elsewhere\n"})
	cfg := testConfig(root)

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "zero order", path: filepath.Join(root, "zero.md"), wantErr: ErrZeroOrder},
		{name: "front matter syntax", path: filepath.Join(root, "broken.md"), wantErr: ErrFrontMatter},
		{name: "outside root", path: filepath.Join(outside, "elsewhere.md"), wantErr: ErrOutsideRoot},
		{name: "missing file", path: filepath.Join(root, "missing.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPage(context.Background(), tt.path, nil, cfg)
			if err == nil {
				t.Fatal("NewPage() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewPage() error = %v, want %v", err, tt.wantErr)
			}

			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("NewPage() error = %T, want *PathError", err)
			}
			if pe.Path != tt.path {
				t.Errorf("PathError.Path = %q, want %q", pe.Path, tt.path)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not name %q", err, tt.path)
			}
		})
	}
}

func TestNewPage_Idempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md": "# A\n\nText.\n\n## One\n\n```go\nx := 1\n```\n\n::warning\nCareful.\n::\n",
	})
	cfg := testConfig(root)
	path := filepath.Join(root, "a.md")

	first, err := NewPage(context.Background(), path, nil, cfg)
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}
	second, err := NewPage(context.Background(), path, nil, cfg)
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}

	if first.HTML != second.HTML {
		t.Errorf("HTML differs between builds")
	}
	if len(first.TOC) != len(second.TOC) || len(first.SearchIndex) != len(second.SearchIndex) {
		t.Errorf("derived outputs differ between builds")
	}
}

func TestNewPage_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.md": "# A\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPage(ctx, filepath.Join(root, "a.md"), nil, testConfig(root)); !errors.Is(err, context.Canceled) {
		t.Errorf("NewPage() error = %v, want %v", err, context.Canceled)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{rel: "index.md", want: "/"},
		{rel: "contact.md", want: "/contact"},
		{rel: "setup/index.md", want: "/setup"},
		{rel: "setup/install.md", want: "/setup/install"},
		{rel: "a/b/index.md", want: "/a/b"},
		{rel: "reindex.md", want: "/reindex"},
	}
	for _, tt := range tests {
		if got := pageURL(tt.rel); got != tt.want {
			t.Errorf("pageURL(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}
