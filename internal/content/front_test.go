package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantOrder *int
		wantBody  string
		wantErr   error
	}{
		{
			name:     "no front matter",
			input:    "# Hello\n",
			wantBody: "# Hello\n",
		},
		{
			name:      "title and order",
			input:     "---\ntitle: Custom\norder: 3\n---\n# Hello\n",
			wantTitle: "Custom",
			wantOrder: intPtr(3),
			wantBody:  "# Hello\n",
		},
		{
			name:    "zero order",
			input:   "---\norder: 0\n---\n",
			wantErr: ErrZeroOrder,
		},
		{
			name:    "negative order",
			input:   "---\norder: -2\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:    "order is not a number",
			input:   "---\norder: first\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:    "fractional order",
			input:   "---\norder: 1.5\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:    "fractional order below one",
			input:   "---\norder: 0.4\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:    "quoted order",
			input:   "---\norder: \"2\"\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:    "order is a list",
			input:   "---\norder: [1]\n---\n",
			wantErr: ErrFrontMatter,
		},
		{
			name:     "null order",
			input:    "---\norder: ~\n---\nbody\n",
			wantBody: "body\n",
		},
		{
			name:    "yaml syntax error",
			input:   "---\ntitle: [unclosed\n---\n",
			wantErr: ErrFrontMatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := splitFrontMatter([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("splitFrontMatter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitFrontMatter() unexpected error: %v", err)
			}

			gotTitle, _ := explicitTitle(fm.Title)
			if gotTitle != tt.wantTitle {
				t.Errorf("Title = %q, want %q", gotTitle, tt.wantTitle)
			}
			switch {
			case tt.wantOrder == nil && fm.Order != nil:
				t.Errorf("Order = %d, want nil", *fm.Order)
			case tt.wantOrder != nil && (fm.Order == nil || *fm.Order != *tt.wantOrder):
				t.Errorf("Order = %v, want %d", fm.Order, *tt.wantOrder)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestReadSectionMeta(t *testing.T) {
	tests := []struct {
		name      string
		meta      *string
		wantTitle string
		wantErr   error
	}{
		{name: "missing file"},
		{name: "title", meta: strPtr("title: Guides\n"), wantTitle: "Guides"},
		{name: "order only", meta: strPtr("order: 2\n")},
		{name: "zero order", meta: strPtr("order: 0\n"), wantErr: ErrZeroOrder},
		{name: "fractional order", meta: strPtr("order: 2.5\n"), wantErr: ErrSectionMeta},
		{name: "syntax error", meta: strPtr("title: [\n"), wantErr: ErrSectionMeta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.meta != nil {
				if err := os.WriteFile(filepath.Join(dir, SectionMetaFile), []byte(*tt.meta), 0644); err != nil {
					t.Fatalf("Failed to write meta: %v", err)
				}
			}

			meta, err := readSectionMeta(dir)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("readSectionMeta() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readSectionMeta() unexpected error: %v", err)
			}
			if got, _ := explicitTitle(meta.Title); got != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestReadContent_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.md")
	if err := os.WriteFile(path, []byte{'#', ' ', 0xff, 0xfe}, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := readContent(path); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("readContent() error = %v, want %v", err, ErrInvalidUTF8)
	}
}

func strPtr(s string) *string {
	return &s
}
