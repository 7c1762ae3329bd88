// Package toc builds the nested table of contents of a document from its
// level-2-and-deeper headings.
package toc

import (
	"encoding/json"

	"docsite/internal/markdown"
)

// TableOfContents is an ordered list of top-level entries.
type TableOfContents []Entry

// Entry is one heading and the headings nested under it. Every child has a
// strictly greater level than its parent.
type Entry struct {
	Level    int             `json:"level"`
	Text     string          `json:"text"`
	Slug     string          `json:"slug"`
	Children TableOfContents `json:"children"`
}

// MarshalJSON encodes an empty table as [] rather than null.
func (t TableOfContents) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Entry(t))
}

// FromDocument builds the table of contents of doc.
func FromDocument(doc *markdown.Document) TableOfContents {
	return Build(markdown.Headings(doc))
}

// Build folds headings, in document order, into a tree. A heading that skips
// levels is nested directly under its nearest shallower ancestor. Level-1
// headings are ignored.
func Build(headings []markdown.Anchor) TableOfContents {
	b := &builder{}
	for _, h := range headings {
		if h.Level < 2 {
			continue
		}
		b.push(h)
	}
	b.foldUntil(1)
	return b.top
}

// builder keeps the chain of open entries, shallowest first.
type builder struct {
	top   TableOfContents
	chain []Entry
}

func (b *builder) push(h markdown.Anchor) {
	b.foldUntil(h.Level)
	b.chain = append(b.chain, Entry{Level: h.Level, Text: h.Text, Slug: h.Slug})
}

// foldUntil closes every open entry with level >= level, attaching each to its
// parent in the chain or, when the chain empties, to the top level.
func (b *builder) foldUntil(level int) {
	var this *Entry
	for len(b.chain) > 0 {
		next := b.chain[len(b.chain)-1]
		b.chain = b.chain[:len(b.chain)-1]
		if this != nil {
			next.Children = append(next.Children, *this)
		}
		if next.Level < level {
			b.chain = append(b.chain, next)
			return
		}
		this = &next
	}
	if this != nil {
		b.top = append(b.top, *this)
	}
}
