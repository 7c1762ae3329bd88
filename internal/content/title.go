package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"docsite/internal/markdown"
)

// TitleCase controls how titles derived from file and directory names are cased.
type TitleCase int

const (
	// TitleCaseNone leaves the name as written.
	TitleCaseNone TitleCase = iota
	// TitleCaseFirst capitalizes the first letter.
	TitleCaseFirst
	// TitleCaseTitle capitalizes every word.
	TitleCaseTitle
)

// ParseTitleCase parses "none", "first" or "title".
func ParseTitleCase(s string) (TitleCase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return TitleCaseNone, nil
	case "first", "":
		return TitleCaseFirst, nil
	case "title":
		return TitleCaseTitle, nil
	}
	return TitleCaseNone, fmt.Errorf("unknown title case %q", s)
}

func (c TitleCase) String() string {
	switch c {
	case TitleCaseFirst:
		return "first"
	case TitleCaseTitle:
		return "title"
	default:
		return "none"
	}
}

// NameFromPath derives a title from the last element of path: a Markdown
// extension is dropped, hyphens become spaces and the casing rule is applied.
func NameFromPath(path string, c TitleCase) string {
	name := filepath.Base(path)
	if isMarkdown(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = strings.ReplaceAll(name, "-", " ")

	switch c {
	case TitleCaseTitle:
		// Casers are stateful; build one per call.
		return cases.Title(language.English, cases.NoLower).String(name)
	case TitleCaseFirst:
		r, size := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError {
			return name
		}
		return string(unicode.ToTitle(r)) + name[size:]
	}
	return name
}

// pageTitle resolves a page title: explicit front matter, else the document's
// leading level-1 heading, else a name derived from the path.
func pageTitle(fm FrontMatter, doc *markdown.Document, path string, c TitleCase) string {
	if t, ok := explicitTitle(fm.Title); ok {
		return t
	}
	if t, ok := markdown.DocumentTitle(doc); ok {
		return t
	}
	return NameFromPath(path, c)
}

// sectionTitle resolves a directory title: _dir.yaml title, else the
// leading level-1 heading of its index.md, else a name derived from the path.
func sectionTitle(meta SectionMeta, dir string, c TitleCase) (string, error) {
	if t, ok := explicitTitle(meta.Title); ok {
		return t, nil
	}

	t, ok, err := indexTitle(dir)
	if err != nil {
		return "", err
	}
	if ok {
		return t, nil
	}
	return NameFromPath(dir, c), nil
}

func indexTitle(dir string) (string, bool, error) {
	path := filepath.Join(dir, indexFile)
	data, err := readContent(path)
	if err != nil {
		if isNotExist(err) {
			return "", false, nil
		}
		return "", false, wrapPath("read index", path, err)
	}
	_, body, err := splitFrontMatter(data)
	if err != nil {
		return "", false, wrapPath("read index", path, err)
	}
	t, ok := markdown.DocumentTitle(markdown.Parse(body))
	return t, ok, nil
}
