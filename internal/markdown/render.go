package markdown

import (
	"context"
	"fmt"
	"html"
	"strings"

	"docsite/internal/contextutil"
)

// numberedHighlighter is implemented by highlighters that can add line numbers.
type numberedHighlighter interface {
	HighlightNumbered(language, code string) (string, error)
}

// Renderer renders Documents to HTML.
type Renderer struct {
	highlighter Highlighter
}

// NewRenderer creates a renderer. A nil highlighter renders code escaped but
// unhighlighted.
func NewRenderer(h Highlighter) *Renderer {
	return &Renderer{highlighter: h}
}

// Render renders doc to HTML. Highlighting failures are logged and embedded
// in the affected code block; they never fail the render.
func (r *Renderer) Render(ctx context.Context, doc *Document) string {
	w := &htmlWriter{ctx: ctx, r: r}
	w.nodes(doc.Children)
	return w.b.String()
}

type htmlWriter struct {
	ctx context.Context
	r   *Renderer
	b   strings.Builder
}

func (w *htmlWriter) nodes(nodes []Node) {
	for _, n := range nodes {
		w.node(n)
	}
}

func (w *htmlWriter) node(n Node) {
	switch v := n.(type) {
	case *Document:
		w.nodes(v.Children)
	case *Text:
		w.b.WriteString(html.EscapeString(v.Value))
		switch {
		case v.HardBreak:
			w.b.WriteString("<br>\n")
		case v.SoftBreak:
			w.b.WriteByte('\n')
		}
	case *Emphasis:
		tag := "em"
		if v.Level == 2 {
			tag = "strong"
		}
		w.wrap(tag, v.Children)
	case *Strikethrough:
		w.wrap("del", v.Children)
	case *CodeSpan:
		w.b.WriteString("<code>")
		w.b.WriteString(html.EscapeString(PlainText(v)))
		w.b.WriteString("</code>")
	case *Link:
		w.b.WriteString(`<a href="`)
		w.b.WriteString(html.EscapeString(v.Destination))
		w.b.WriteByte('"')
		w.attr("title", v.Title)
		w.b.WriteByte('>')
		w.nodes(v.Children)
		w.b.WriteString("</a>")
	case *Paragraph:
		if len(v.Children) == 1 {
			if img, ok := v.Children[0].(*Image); ok {
				w.image(img)
				w.b.WriteByte('\n')
				return
			}
		}
		w.wrap("p", v.Children)
		w.b.WriteByte('\n')
	case *Heading:
		w.heading(v)
	case *CodeBlock:
		w.codeBlock(v)
	case *Image:
		w.image(v)
	case *Admonition:
		fmt.Fprintf(&w.b, "<div class=\"admonition admonition-%s\">\n", html.EscapeString(v.Kind))
		w.nodes(v.Children)
		w.b.WriteString("</div>\n")
	case *Generic:
		w.generic(v)
	}
}

func (w *htmlWriter) wrap(tag string, children []Node) {
	w.b.WriteString("<" + tag + ">")
	w.nodes(children)
	w.b.WriteString("</" + tag + ">")
}

func (w *htmlWriter) attr(name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(&w.b, " %s=\"%s\"", name, html.EscapeString(value))
}

// heading emits the heading with its slug as id and a trailing anchor link.
func (w *htmlWriter) heading(h *Heading) {
	slug := Slugify(PlainText(h))
	fmt.Fprintf(&w.b, "<h%d", h.Level)
	w.attr("id", slug)
	w.b.WriteByte('>')
	w.nodes(h.Children)
	if slug != "" {
		fmt.Fprintf(&w.b, "<a href=\"#%s\" class=\"anchor\">#</a>", html.EscapeString(slug))
	}
	fmt.Fprintf(&w.b, "</h%d>\n", h.Level)
}

func (w *htmlWriter) codeBlock(c *CodeBlock) {
	fmt.Fprintf(&w.b, "<pre class=\"language-%s\"><code>", html.EscapeString(c.Language))
	w.b.WriteString(w.highlight(c))
	w.b.WriteString("</code></pre>\n")
}

func (w *htmlWriter) highlight(c *CodeBlock) string {
	h := w.r.highlighter
	if h == nil {
		return html.EscapeString(c.Source)
	}

	var (
		out string
		err error
	)
	if nh, ok := h.(numberedHighlighter); ok && hasInfoFlag(c.Info, "showLineNumbers") {
		out, err = nh.HighlightNumbered(c.Language, c.Source)
	} else {
		out, err = h.Highlight(c.Language, c.Source)
	}
	if err != nil {
		contextutil.LoggerFromContext(w.ctx).WarnContext(w.ctx, "code highlighting failed", "language", c.Language, "error", err)
		return html.EscapeString(err.Error())
	}
	return out
}

func hasInfoFlag(info, flag string) bool {
	fields := strings.Fields(info)
	for _, f := range fields[min(1, len(fields)):] {
		if f == flag {
			return true
		}
	}
	return false
}

// image wraps the image in a figure linking to the full-size file. The alt
// text is recomputed from the image's inline content. A paragraph holding
// only an image is replaced by the figure.
func (w *htmlWriter) image(img *Image) {
	w.b.WriteString("<figure>")
	fmt.Fprintf(&w.b, "<a href=\"%s\">", html.EscapeString(img.Destination))
	fmt.Fprintf(&w.b, "<img src=\"%s\"", html.EscapeString(img.Destination))
	w.attr("title", img.Title)
	w.attr("alt", PlainText(img))
	w.b.WriteString("></a></figure>")
}

func (w *htmlWriter) generic(g *Generic) {
	if g.Raw != "" {
		w.b.WriteString(g.Raw)
		return
	}
	if g.Tag == "" {
		w.nodes(g.Children)
		return
	}

	w.b.WriteString("<" + g.Tag)
	for _, a := range g.Attrs {
		fmt.Fprintf(&w.b, " %s=\"%s\"", a.Name, html.EscapeString(a.Value))
	}
	w.b.WriteByte('>')
	if g.Void {
		if g.Block {
			w.b.WriteByte('\n')
		}
		return
	}
	if g.Block && len(g.Children) > 0 {
		if first, ok := g.Children[0].(*Generic); ok && first.Block && first.Tag != "" {
			w.b.WriteByte('\n')
		}
	}
	w.nodes(g.Children)
	w.b.WriteString("</" + g.Tag + ">")
	if g.Block {
		w.b.WriteByte('\n')
	}
}
