package storage

import "time"

// PageRecord is a built page as stored in the pages table.
type PageRecord struct {
	ID        string // UUID, kept stable across builds
	URL       string
	RelPath   string // Relative path from the content root
	Title     string
	Hash      string // SHA256 hex string of the page source
	UpdatedAt time.Time
}

// DocumentRecord is one row of the exported search index.
type DocumentRecord struct {
	BuildID   string
	Position  int // index within the site search index
	Level     int
	PageTitle string
	Title     string
	Content   string
}
