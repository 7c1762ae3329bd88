package content

import (
	"path/filepath"
	"testing"
)

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		c    TitleCase
		want string
	}{
		{name: "first letter", path: "docs/getting-started.md", c: TitleCaseFirst, want: "Getting started"},
		{name: "title case", path: "docs/getting-started.md", c: TitleCaseTitle, want: "Getting Started"},
		{name: "untouched", path: "docs/getting-started.md", c: TitleCaseNone, want: "getting started"},
		{name: "directory", path: "docs/api-reference", c: TitleCaseFirst, want: "Api reference"},
		{name: "dotted directory keeps suffix", path: "docs/v1.2", c: TitleCaseNone, want: "v1.2"},
		{name: "title case keeps inner capitals", path: "docs/using-the-CLI.md", c: TitleCaseTitle, want: "Using The CLI"},
		{name: "non-ascii first letter", path: "docs/élan.md", c: TitleCaseFirst, want: "Élan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameFromPath(tt.path, tt.c); got != tt.want {
				t.Errorf("NameFromPath(%q, %v) = %q, want %q", tt.path, tt.c, got, tt.want)
			}
		})
	}
}

func TestParseTitleCase(t *testing.T) {
	tests := []struct {
		in      string
		want    TitleCase
		wantErr bool
	}{
		{in: "none", want: TitleCaseNone},
		{in: "first", want: TitleCaseFirst},
		{in: "", want: TitleCaseFirst},
		{in: " Title ", want: TitleCaseTitle},
		{in: "upper", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTitleCase(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTitleCase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTitleCase() = %v, want %v", got, tt.want)
			}
			if !tt.wantErr {
				if back, _ := ParseTitleCase(got.String()); back != got {
					t.Errorf("ParseTitleCase(%q) = %v, want %v", got.String(), back, got)
				}
			}
		})
	}
}

func TestSectionTitle(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "sidecar title wins",
			files: map[string]string{"guide/_dir.yaml": "title: Guides\n", "guide/index.md": "# Guide index\n"},
			want:  "Guides",
		},
		{
			name:  "sidecar without title falls back to index",
			files: map[string]string{"guide/_dir.yaml": "order: 2\n", "guide/index.md": "# Guide index\n"},
			want:  "Guide index",
		},
		{
			name:  "index front matter is skipped",
			files: map[string]string{"guide/index.md": "---\ntitle: Ignored\n---\n# From heading\n"},
			want:  "From heading",
		},
		{
			name:  "index without h1 falls back to name",
			files: map[string]string{"guide/index.md": "## Not a title\n"},
			want:  "Guide",
		},
		{
			name:  "no index",
			files: map[string]string{"guide/other.md": "# Other\n"},
			want:  "Guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			dir := filepath.Join(root, "guide")

			meta, err := readSectionMeta(dir)
			if err != nil {
				t.Fatalf("readSectionMeta() error = %v", err)
			}
			got, err := sectionTitle(meta, dir, TitleCaseFirst)
			if err != nil {
				t.Fatalf("sectionTitle() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("sectionTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
