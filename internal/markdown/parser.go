package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultLanguage is the language tag of code blocks without an info string.
const DefaultLanguage = "text"

// Parser turns Markdown bodies into Documents using goldmark for the base
// grammar. A Parser is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser with GFM strikethrough and tables and the
// admonition block rule enabled.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Table,
			),
			goldmark.WithParserOptions(
				parser.WithBlockParsers(
					util.Prioritized(newAdmonitionParser(), 750),
				),
			),
		),
	}
}

var defaultParser = NewParser()

// Parse parses src with the default parser.
func Parse(src []byte) *Document {
	return defaultParser.Parse(src)
}

// Parse parses a Markdown body (front matter already removed). It never fails:
// malformed constructs degrade to paragraphs and text.
func (p *Parser) Parse(src []byte) *Document {
	root := p.md.Parser().Parse(text.NewReader(src))
	c := converter{src: src}
	return &Document{Children: c.children(root)}
}

type converter struct {
	src []byte
}

func (c converter) children(n gast.Node) []Node {
	var out []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node := c.convert(child); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (c converter) convert(n gast.Node) Node {
	switch v := n.(type) {
	case *gast.Text:
		value := v.Segment.Value(c.src)
		if !v.IsRaw() {
			value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
		}
		return &Text{
			Value:     string(value),
			SoftBreak: v.SoftLineBreak(),
			HardBreak: v.HardLineBreak(),
		}
	case *gast.String:
		return &Text{Value: string(v.Value)}
	case *gast.Emphasis:
		return &Emphasis{Level: v.Level, Children: c.children(v)}
	case *east.Strikethrough:
		return &Strikethrough{Children: c.children(v)}
	case *gast.CodeSpan:
		return &CodeSpan{Children: c.children(v)}
	case *gast.Link:
		return &Link{
			Destination: string(v.Destination),
			Title:       string(v.Title),
			Children:    c.children(v),
		}
	case *gast.AutoLink:
		return &Link{
			Destination: string(v.URL(c.src)),
			Children:    []Node{&Text{Value: string(v.Label(c.src))}},
		}
	case *gast.Image:
		return &Image{
			Destination: string(v.Destination),
			Title:       string(v.Title),
			Children:    c.children(v),
		}
	case *gast.Paragraph:
		return &Paragraph{Children: c.children(v)}
	case *gast.Heading:
		return &Heading{Level: v.Level, Children: c.children(v)}
	case *gast.FencedCodeBlock:
		block := &CodeBlock{Language: DefaultLanguage, Source: c.lines(v)}
		if v.Info != nil {
			block.Info = strings.TrimSpace(string(v.Info.Segment.Value(c.src)))
			if fields := strings.Fields(block.Info); len(fields) > 0 {
				block.Language = fields[0]
			}
		}
		return block
	case *gast.CodeBlock:
		return &CodeBlock{Language: DefaultLanguage, Source: c.lines(v)}
	case *admonitionBlock:
		return &Admonition{Kind: v.kind, Children: c.children(v)}
	case *gast.List:
		g := &Generic{Kind: "List", Tag: "ul", Block: true, Children: c.children(v)}
		if v.IsOrdered() {
			g.Tag = "ol"
			if v.Start != 1 {
				g.Attrs = []Attr{{Name: "start", Value: strconv.Itoa(v.Start)}}
			}
		}
		return g
	case *gast.ListItem:
		return &Generic{Kind: "ListItem", Tag: "li", Block: true, Children: c.children(v)}
	case *gast.TextBlock:
		return &Generic{Kind: "TextBlock", Children: c.children(v)}
	case *gast.Blockquote:
		return &Generic{Kind: "Blockquote", Tag: "blockquote", Block: true, Children: c.children(v)}
	case *gast.ThematicBreak:
		return &Generic{Kind: "ThematicBreak", Tag: "hr", Block: true, Void: true}
	case *gast.HTMLBlock:
		raw := c.lines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(c.src))
		}
		return &Generic{Kind: "HTMLBlock", Block: true, Raw: raw}
	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		return &Generic{Kind: "RawHTML", Raw: b.String()}
	case *east.Table:
		return c.table(v)
	}

	return &Generic{
		Kind:     n.Kind().String(),
		Block:    n.Type() == gast.TypeBlock,
		Children: c.children(n),
	}
}

// table regroups goldmark's flat header/row children into thead and tbody.
func (c converter) table(t *east.Table) Node {
	g := &Generic{Kind: "Table", Tag: "table", Block: true}
	var body *Generic
	for child := t.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			tr := &Generic{Kind: "TableRow", Tag: "tr", Block: true, Children: c.cells(row, "th")}
			g.Children = append(g.Children, &Generic{Kind: "TableHeader", Tag: "thead", Block: true, Children: []Node{tr}})
		case *east.TableRow:
			if body == nil {
				body = &Generic{Kind: "TableBody", Tag: "tbody", Block: true}
				g.Children = append(g.Children, body)
			}
			tr := &Generic{Kind: "TableRow", Tag: "tr", Block: true, Children: c.cells(row, "td")}
			body.Children = append(body.Children, tr)
		}
	}
	return g
}

func (c converter) cells(row gast.Node, tag string) []Node {
	var out []Node
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		g := &Generic{Kind: "TableCell", Tag: tag, Children: c.children(cell)}
		if cell.Alignment != east.AlignNone {
			g.Attrs = []Attr{{Name: "align", Value: cell.Alignment.String()}}
		}
		out = append(out, g)
	}
	return out
}

func (c converter) lines(n gast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(c.src))
	}
	return b.String()
}
