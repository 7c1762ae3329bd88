package build

import (
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"docsite/internal/search"
)

// Stats describes a completed build.
type Stats struct {
	// BuildID identifies the build in logs and in the exported search index.
	BuildID string `json:"build_id"`
	// Pages is the number of pages written.
	Pages int `json:"pages"`
	// Sections is the number of sections, the root included.
	Sections int `json:"sections"`
	// Documents is the number of search documents.
	Documents int `json:"documents"`
	// ChangedPages is the number of new or changed pages in the SQLite export.
	// It stays 0 when the export is disabled.
	ChangedPages int `json:"changed_pages"`
	// SkippedFiles is the number of Markdown files below skipped directories.
	SkippedFiles int `json:"skipped_files"`
	// Content summarises search document sizes.
	Content  ContentStats  `json:"content"`
	Duration time.Duration `json:"duration"`
}

// ContentStats contains statistics about the rune counts of search document
// contents.
type ContentStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
	// Empty is the number of documents without content.
	Empty int `json:"empty"`
}

func computeContentStats(docs search.Index) ContentStats {
	if len(docs) == 0 {
		return ContentStats{}
	}

	var stats ContentStats
	sizes := make([]int, len(docs))
	for i, d := range docs {
		sizes[i] = utf8.RuneCountInString(d.Content)
		if sizes[i] == 0 {
			stats.Empty++
		}
	}

	// Sort for percentile calculation
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)

	sum := 0
	for _, n := range sizes {
		sum += n
	}
	mean := float64(sum) / float64(len(sizes))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Mean = math.Round(mean*100) / 100 // Round to 2 decimal places
	stats.P95 = sorted[p95Index]
	return stats
}
