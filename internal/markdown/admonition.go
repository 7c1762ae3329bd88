package markdown

import (
	"bytes"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Admonition kinds. Unknown kinds fall back to AdmonitionInfo.
const (
	AdmonitionInfo    = "info"
	AdmonitionSuccess = "success"
	AdmonitionWarning = "warning"
	AdmonitionDanger  = "danger"
)

var admonitionKinds = map[string]bool{
	AdmonitionInfo:    true,
	AdmonitionSuccess: true,
	AdmonitionWarning: true,
	AdmonitionDanger:  true,
}

var admonitionMarker = []byte("::")

// kindAdmonitionBlock is the goldmark node kind of an admonition block.
var kindAdmonitionBlock = gast.NewNodeKind("Admonition")

type admonitionBlock struct {
	gast.BaseBlock
	kind string
}

func (n *admonitionBlock) Kind() gast.NodeKind {
	return kindAdmonitionBlock
}

func (n *admonitionBlock) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Kind": n.kind}, nil)
}

// admonitionParser opens a block on a line starting with "::" (optionally
// followed by a kind) and closes it on a line containing only "::".
// An unclosed block runs to the end of the document. Nesting is not supported.
type admonitionParser struct{}

func newAdmonitionParser() parser.BlockParser {
	return &admonitionParser{}
}

func (b *admonitionParser) Trigger() []byte {
	return []byte{':'}
}

func (b *admonitionParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], admonitionMarker) {
		return nil, parser.NoChildren
	}

	kind := string(bytes.ToLower(util.TrimRightSpace(util.TrimLeftSpace(line[pos+len(admonitionMarker):]))))
	if !admonitionKinds[kind] {
		kind = AdmonitionInfo
	}

	reader.Advance(lineLength(line))
	return &admonitionBlock{kind: kind}, parser.HasChildren
}

func (b *admonitionParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if bytes.Equal(util.TrimRightSpace(util.TrimLeftSpace(line)), admonitionMarker) && !inOpenFence(node, pc) {
		reader.Advance(lineLength(line))
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

// inOpenFence reports whether the last child of node is a fenced code block
// that has not seen its closing fence yet.
func inOpenFence(node gast.Node, pc parser.Context) bool {
	last, ok := node.LastChild().(*gast.FencedCodeBlock)
	if !ok {
		return false
	}
	for _, b := range pc.OpenedBlocks() {
		if b.Node == last {
			return true
		}
	}
	return false
}

func (b *admonitionParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {}

func (b *admonitionParser) CanInterruptParagraph() bool {
	return true
}

func (b *admonitionParser) CanAcceptIndentedLine() bool {
	return false
}

// lineLength is the length of line without its trailing newline.
func lineLength(line []byte) int {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	return n
}
