package content

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files below a fresh "docs" directory and returns its path.
// A key ending in "/" creates an empty directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "docs")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create root: %v", err)
	}

	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatalf("Failed to create dir: %v", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
	return root
}

func testConfig(root string) ProjectConfig {
	return ProjectConfig{Root: root, TitleCase: TitleCaseFirst, Workers: 4}
}

func intPtr(n int) *int {
	return &n
}
