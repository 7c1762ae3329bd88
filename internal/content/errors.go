package content

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroOrder is returned when front matter or section metadata sets order to 0.
	ErrZeroOrder = errors.New("order must not be 0")
	// ErrNoPages is returned for a directory without any Markdown file.
	ErrNoPages = errors.New("no pages found in directory")
	// ErrOutsideRoot is returned for a path that is not below the project root.
	ErrOutsideRoot = errors.New("path is outside the project root")
	// ErrInvalidUTF8 is returned when a content file is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
	// ErrFrontMatter is returned when a page's front matter cannot be parsed or fails validation.
	ErrFrontMatter = errors.New("invalid front matter")
	// ErrSectionMeta is returned when a _dir.yaml file cannot be parsed or fails validation.
	ErrSectionMeta = errors.New("invalid section metadata")
)

// PathError records the file or directory a content error is about.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// wrapPath wraps err in a PathError unless it already carries one.
func wrapPath(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}
	return &PathError{Op: op, Path: path, Err: err}
}
