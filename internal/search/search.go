// Package search splits a document into heading-scoped units of plain text
// for the client-side site search.
package search

import (
	"encoding/json"

	"docsite/internal/markdown"
)

// Document is one searchable unit of a page.
type Document struct {
	Level     int    `json:"level"`
	PageTitle string `json:"page_title"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Index is the list of search documents of a page or a whole site, in
// document order.
type Index []Document

// MarshalJSON encodes an empty index as [] rather than null.
func (idx Index) MarshalJSON() ([]byte, error) {
	if idx == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Document(idx))
}

// Extract builds the search index of doc. The first document is the preamble
// (everything before the first heading of level 2 or deeper) under the page
// title at level 1; it is followed by one document per level-2+ heading whose
// content runs up to the next such heading. Level-1 headings are neither
// emitted nor treated as boundaries.
func Extract(pageTitle string, doc *markdown.Document) Index {
	idx := Index{{Level: 1, PageTitle: pageTitle, Title: pageTitle}}

	var (
		current = &idx[0]
		body    []markdown.Node
	)
	flush := func() {
		current.Content = markdown.JoinText(body)
		body = body[:0]
	}

	for _, n := range doc.Children {
		h, ok := n.(*markdown.Heading)
		if !ok {
			body = append(body, n)
			continue
		}
		if h.Level < 2 {
			continue
		}
		flush()
		idx = append(idx, Document{
			Level:     h.Level,
			PageTitle: pageTitle,
			Title:     markdown.PlainText(h),
		})
		current = &idx[len(idx)-1]
	}
	flush()

	return idx
}
