package content

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ScannedFile is a Markdown file found below a content root.
type ScannedFile struct {
	RelPath string // Relative path from the root (e.g., "guide/setup.md")
	Folder  string // Folder part of RelPath, empty for root-level files
	AbsPath string
}

// ScanMarkdown lists every Markdown file below root in lexical order. It
// applies no skip rules, so it sees files in skipped directories too.
func ScanMarkdown(ctx context.Context, root string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}

		relPath, err := relativePath(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		files = append(files, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}
