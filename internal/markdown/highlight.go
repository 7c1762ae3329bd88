package markdown

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_highlighter.go -package=mocks docsite/internal/markdown Highlighter

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrUnknownLanguage is returned by a Highlighter for a language it has no
// grammar for. Renderers treat it as non-fatal.
var ErrUnknownLanguage = errors.New("no syntax found for language")

// Highlighter turns source code into highlighted HTML (without the
// surrounding <pre><code>).
type Highlighter interface {
	Highlight(language, code string) (string, error)
}

// ChromaHighlighter highlights code with chroma, emitting class-based spans.
// It holds no mutable state and is safe for concurrent use.
type ChromaHighlighter struct {
	formatter *chromahtml.Formatter
	numbered  *chromahtml.Formatter
	style     *chroma.Style
}

// NewChromaHighlighter creates a highlighter. The style only matters for CSS
// generation since spans carry classes, not inline colours.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	return &ChromaHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		numbered: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithPreWrapper(bareWrapper{}),
			chromahtml.WithLineNumbers(true),
		),
		style: styles.Get(style),
	}
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(language, code string) (string, error) {
	return h.highlight(h.formatter, language, code)
}

// HighlightNumbered highlights code with line numbers.
func (h *ChromaHighlighter) HighlightNumbered(language, code string) (string, error) {
	return h.highlight(h.numbered, language, code)
}

func (h *ChromaHighlighter) highlight(f *chromahtml.Formatter, language, code string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", fmt.Errorf("%w %s", ErrUnknownLanguage, language)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", language, err)
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, h.style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", language, err)
	}
	return buf.String(), nil
}

// bareWrapper drops chroma's <pre><code> while keeping per-line spans, which
// chroma only emits when PreventSurroundingPre is off.
type bareWrapper struct{}

func (bareWrapper) Start(code bool, styleAttr string) string { return "" }
func (bareWrapper) End(code bool) string                     { return "" }

// WriteCSS writes the stylesheet for the highlighter's classes.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
