package markdown_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docsite/internal/markdown"
	"docsite/internal/markdown/mocks"

	"go.uber.org/mock/gomock"
)

func render(t *testing.T, h markdown.Highlighter, src string) string {
	t.Helper()
	return markdown.NewRenderer(h).Render(context.Background(), markdown.Parse([]byte(src)))
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "heading with anchor",
			src:  "## Hello world",
			want: "<h2 id=\"hello-world\">Hello world<a href=\"#hello-world\" class=\"anchor\">#</a></h2>\n",
		},
		{
			name: "paragraph with inline markup",
			src:  "Some *em*, **strong**, ~~gone~~ and `a<b`.",
			want: "<p>Some <em>em</em>, <strong>strong</strong>, <del>gone</del> and <code>a&lt;b</code>.</p>\n",
		},
		{
			name: "link",
			src:  `[docs](/docs "Read")`,
			want: "<p><a href=\"/docs\" title=\"Read\">docs</a></p>\n",
		},
		{
			name: "image becomes figure",
			src:  `![A cat](/cat.png "Cat")`,
			want: "<figure><a href=\"/cat.png\"><img src=\"/cat.png\" title=\"Cat\" alt=\"A cat\"></a></figure>\n",
		},
		{
			name: "image with emphasis in alt",
			src:  `![A *big* cat](/cat.png)`,
			want: "<figure><a href=\"/cat.png\"><img src=\"/cat.png\" alt=\"A big cat\"></a></figure>\n",
		},
		{
			name: "admonition",
			src:  "::warning\nBe careful.\n::\n",
			want: "<div class=\"admonition admonition-warning\">\n<p>Be careful.</p>\n</div>\n",
		},
		{
			name: "tight list",
			src:  "- a\n- b\n",
			want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n",
		},
		{
			name: "thematic break",
			src:  "***\n",
			want: "<hr>\n",
		},
		{
			name: "escaped text",
			src:  "1 &lt; 2 & 3 > 2",
			want: "<p>1 &lt; 2 &amp; 3 &gt; 2</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, nil, tt.src); got != tt.want {
				t.Errorf("Render() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRenderer_Table(t *testing.T) {
	got := render(t, nil, "| a | b |\n|:--|--:|\n| 1 | 2 |\n")

	for _, want := range []string{
		"<table>\n<thead>\n<tr><th align=\"left\">a</th><th align=\"right\">b</th></tr>\n</thead>\n",
		"<tbody>\n<tr><td align=\"left\">1</td><td align=\"right\">2</td></tr>\n</tbody>\n</table>\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() = %q, missing %q", got, want)
		}
	}
}

func TestRenderer_CodeBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name  string
		src   string
		setup func(*mocks.MockHighlighter)
		want  string
	}{
		{
			name: "highlighted",
			src:  "```go\nx := 1\n```\n",
			setup: func(m *mocks.MockHighlighter) {
				m.EXPECT().Highlight("go", "x := 1\n").Return("<span class=\"n\">x</span>", nil)
			},
			want: "<pre class=\"language-go\"><code><span class=\"n\">x</span></code></pre>\n",
		},
		{
			name: "default language",
			src:  "```\nplain\n```\n",
			setup: func(m *mocks.MockHighlighter) {
				m.EXPECT().Highlight(markdown.DefaultLanguage, "plain\n").Return("plain\n", nil)
			},
			want: "<pre class=\"language-text\"><code>plain\n</code></pre>\n",
		},
		{
			name: "unknown language degrades to message",
			src:  "```klingon\nqapla'\n```\n",
			setup: func(m *mocks.MockHighlighter) {
				m.EXPECT().Highlight("klingon", "qapla'\n").Return("", fmt.Errorf("%w <klingon>", markdown.ErrUnknownLanguage))
			},
			want: "<pre class=\"language-klingon\"><code>no syntax found for language &lt;klingon&gt;</code></pre>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mocks.NewMockHighlighter(ctrl)
			tt.setup(h)
			if got := render(t, h, tt.src); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_NilHighlighterEscapes(t *testing.T) {
	got := render(t, nil, "```html\n<b>\n```\n")
	want := "<pre class=\"language-html\"><code>&lt;b&gt;\n</code></pre>\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderer_Idempotent(t *testing.T) {
	src := "# Title\n\nIntro.\n\n## A\n\n```go\nfunc main() {}\n```\n\n::info\nNote.\n::\n"
	h := markdown.NewChromaHighlighter("github")

	first := render(t, h, src)
	second := render(t, h, src)
	if first != second {
		t.Errorf("Render() not deterministic:\n%q\n%q", first, second)
	}
}
