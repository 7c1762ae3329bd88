package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsite/internal/config"
	"docsite/internal/search"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	root := filepath.Join(t.TempDir(), "docs")
	files := map[string]string{
		"index.md":       "# Home\n\nWelcome.\n\n## Start\n\nRead on.\n",
		"guide/index.md": "# Guide\n\nSteps.\n",
	}
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	return &config.Config{
		Root:           root,
		OutDir:         filepath.Join(t.TempDir(), "dist"),
		TitleCase:      "first",
		Workers:        2,
		HighlightStyle: "github",
		Addr:           "127.0.0.1:0",
		LogLevel:       "error",
		LogFormat:      "text",
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(cfg)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestIndexCmd(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "index")
	if err != nil {
		t.Fatalf("index error = %v", err)
	}

	var docs []search.Document
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("index output is not a JSON array: %v\n%s", err, out)
	}
	if len(docs) == 0 || docs[0].PageTitle != "Home" {
		t.Errorf("index output = %+v", docs)
	}
}

func TestIndexCmd_OutputFile(t *testing.T) {
	cfg := testConfig(t)
	file := filepath.Join(t.TempDir(), "search.json")

	out, err := execute(t, cfg, "index", "-o", file)
	if err != nil {
		t.Fatalf("index error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "[") {
		t.Errorf("index file = %q, want a JSON array", data)
	}
}

func TestBuildCmd(t *testing.T) {
	cfg := testConfig(t)
	out := filepath.Join(t.TempDir(), "site")
	db := filepath.Join(t.TempDir(), "data", "search.db")

	if _, err := execute(t, cfg, "build", "--out", out, "--search-db", db, "--sanitize"); err != nil {
		t.Fatalf("build error = %v", err)
	}

	for _, rel := range []string{"index.html", "guide/index.html", "search.json", "style.css"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("search database not created: %v", err)
	}
	if !cfg.Sanitize {
		t.Error("--sanitize flag not applied to the configuration")
	}
}

func TestRootCmd_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero workers", args: []string{"index", "--workers", "0"}},
		{name: "unknown title case", args: []string{"index", "--title-case", "upper"}},
		{name: "unknown log format", args: []string{"index", "--log-format", "xml"}},
		{name: "missing root", args: []string{"index", "--root", "/nonexistent/docsite/root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, testConfig(t), tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantErr   bool
		wantInLog string
	}{
		{name: "json", level: "info", format: "json", wantInLog: `"msg":"hello"`},
		{name: "text", level: "info", format: "text", wantInLog: "msg=hello"},
		{name: "level filters", level: "error", format: "text", wantInLog: ""},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
	}

	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := setupLogging(&buf, &config.Config{LogLevel: tt.level, LogFormat: tt.format})
			if (err != nil) != tt.wantErr {
				t.Fatalf("setupLogging() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			buf.Reset()
			slog.Info("hello")
			if tt.wantInLog == "" && buf.Len() != 0 {
				t.Errorf("log output = %q, want none", buf.String())
			}
			if tt.wantInLog != "" && !strings.Contains(buf.String(), tt.wantInLog) {
				t.Errorf("log output = %q, want %q", buf.String(), tt.wantInLog)
			}
		})
	}
}
