package markdown

// Node is a node of a parsed document. The set of node types is closed: every
// consumer switches over the concrete types declared in this file.
type Node interface {
	node()
}

// Document is the root of a parsed Markdown body.
type Document struct {
	Children []Node
}

// Text is a run of literal text.
type Text struct {
	Value     string
	SoftBreak bool // followed by a soft line break
	HardBreak bool // followed by a hard line break
}

// Emphasis is emphasised inline content. Level 1 is <em>, level 2 is <strong>.
type Emphasis struct {
	Level    int
	Children []Node
}

// Strikethrough is GFM ~~deleted~~ text.
type Strikethrough struct {
	Children []Node
}

// CodeSpan is inline `code`.
type CodeSpan struct {
	Children []Node
}

// Link is an inline link or autolink.
type Link struct {
	Destination string
	Title       string
	Children    []Node
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Children []Node
}

// Heading is an ATX or setext heading with a level between 1 and 6.
type Heading struct {
	Level    int
	Children []Node
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Language string // defaults to DefaultLanguage
	Info     string // full fence info string, empty for indented blocks
	Source   string
}

// Image is an inline image. Its alt text is the flattened text of Children.
type Image struct {
	Destination string
	Title       string
	Children    []Node
}

// Admonition is a ::kind ... :: callout block.
type Admonition struct {
	Kind     string
	Children []Node
}

// Generic carries any base parser node without special handling: lists,
// block quotes, tables, thematic breaks and raw HTML.
type Generic struct {
	Kind     string // goldmark node kind, e.g. "List"
	Tag      string // HTML element; empty renders Children only
	Attrs    []Attr
	Block    bool
	Void     bool   // element has no closing tag
	Raw      string // verbatim HTML, rendered instead of Tag/Children
	Children []Node
}

// Attr is an HTML attribute of a Generic node.
type Attr struct {
	Name  string
	Value string
}

func (*Document) node()      {}
func (*Text) node()          {}
func (*Emphasis) node()      {}
func (*Strikethrough) node() {}
func (*CodeSpan) node()      {}
func (*Link) node()          {}
func (*Paragraph) node()     {}
func (*Heading) node()       {}
func (*CodeBlock) node()     {}
func (*Image) node()         {}
func (*Admonition) node()    {}
func (*Generic) node()       {}

// Children returns the child nodes of n, or nil for leaf nodes.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return v.Children
	case *Emphasis:
		return v.Children
	case *Strikethrough:
		return v.Children
	case *CodeSpan:
		return v.Children
	case *Link:
		return v.Children
	case *Paragraph:
		return v.Children
	case *Heading:
		return v.Children
	case *Image:
		return v.Children
	case *Admonition:
		return v.Children
	case *Generic:
		return v.Children
	case *Text, *CodeBlock:
		return nil
	}
	return nil
}

// Walk calls fn for n and every descendant in document order. Returning false
// from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
