package markdown

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PlainText flattens n to its text content. Line breaks become single spaces,
// code blocks contribute their source and raw HTML contributes nothing.
func PlainText(n Node) string {
	var b strings.Builder
	writeText(&b, n)
	return strings.TrimSpace(b.String())
}

func writeText(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		b.WriteString(v.Value)
		if v.SoftBreak || v.HardBreak {
			b.WriteByte(' ')
		}
	case *CodeBlock:
		b.WriteString(v.Source)
	case *Generic:
		if v.Raw != "" {
			return
		}
		for _, c := range v.Children {
			writeText(b, c)
		}
	case *Document, *Emphasis, *Strikethrough, *CodeSpan, *Link, *Paragraph,
		*Heading, *Image, *Admonition:
		for _, c := range Children(n) {
			writeText(b, c)
		}
	}
}

// JoinText flattens each node and joins the non-empty results with single
// spaces.
func JoinText(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := PlainText(n); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Anchor is the derived view of a heading node: its level, flattened text and
// the slug used as its HTML id.
type Anchor struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}

// NewAnchor builds an Anchor, deriving the slug from text.
func NewAnchor(level int, text string) Anchor {
	return Anchor{Level: level, Text: text, Slug: Slugify(text)}
}

// Headings returns the top-level headings of doc with level 2 or deeper, in
// document order. Level-1 headings are reserved for the page title.
func Headings(doc *Document) []Anchor {
	var out []Anchor
	for _, n := range doc.Children {
		if h, ok := n.(*Heading); ok && h.Level > 1 {
			out = append(out, NewAnchor(h.Level, PlainText(h)))
		}
	}
	return out
}

// DocumentTitle returns the text of the first heading of doc when that
// heading is level 1.
func DocumentTitle(doc *Document) (string, bool) {
	for _, n := range doc.Children {
		h, ok := n.(*Heading)
		if !ok {
			continue
		}
		if h.Level != 1 {
			return "", false
		}
		title := PlainText(h)
		return title, title != ""
	}
	return "", false
}

// Slugify lower-cases text, folds diacritics, replaces every run of
// non-alphanumeric characters with a single hyphen and trims edge hyphens.
func Slugify(text string) string {
	// transform chains keep state, so each call builds its own.
	foldMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(foldMarks, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
