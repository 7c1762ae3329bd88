package content

import (
	"cmp"
	"slices"
)

// Compare orders pages for navigation. The root index comes first, then pages
// by explicit order (pages without one rank as 1), then by title and finally
// by relative path.
func Compare(a, b *Page) int {
	return cmpOr(
		cmp.Compare(a.rank(), b.rank()),
		cmp.Compare(a.Title, b.Title),
		cmp.Compare(a.RelPath, b.RelPath),
	)
}

// SortPages sorts pages in place with Compare.
func SortPages(pages []*Page) {
	slices.SortStableFunc(pages, Compare)
}

// compareSections orders sibling sections by explicit order (default 1),
// then title, then path.
func compareSections(a, b *Section) int {
	return cmpOr(
		cmp.Compare(a.rank(), b.rank()),
		cmp.Compare(a.Title, b.Title),
		cmp.Compare(a.RelPath, b.RelPath),
	)
}

// cmpOr returns the first of its arguments that is not zero, or zero. It
// matches cmp.Or from Go 1.22, which the Go 1.21 toolchain does not have.
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
