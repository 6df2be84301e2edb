package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/blog/internal/bootstrap"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var fixtureFS = fstest.MapFS{
	"alpha.md": &fstest.MapFile{Data: []byte("---\ntitle: Alpha\ndate: 2024-01-01\ntags: [go, notes]\n---\nFirst post.\n")},
	"beta.md":  &fstest.MapFile{Data: []byte("---\ntitle: Beta\ndate: 2024-02-01\ntags: [go]\n---\nSecond post.\n")},
	"draft.md": &fstest.MapFile{Data: []byte("---\ntitle: Draft\ndate: 2024-03-01\npublished: false\n---\n# Work in progress\n")},
}

func withFixtureBuilder(t *testing.T) {
	t.Helper()
	original := moduleBuilder
	quiet := console.LevelFatal
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, nil, 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.ContentFS = fixtureFS
		opts.EnvFile = envFile
		opts.Lookup = func(string) (string, bool) { return "", false }
		opts.LoggerProvider = console.NewProvider(console.Options{Writer: io.Discard, MinLevel: &quiet})
		return bootstrap.BuildModule(opts)
	}
	t.Cleanup(func() { moduleBuilder = original })
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("blog %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestListPrintsNewestFirst(t *testing.T) {
	withFixtureBuilder(t)
	out := run(t, "list")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 published posts, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "beta") || !strings.Contains(lines[1], "alpha") {
		t.Fatalf("unexpected order:\n%s", out)
	}
	if strings.Contains(out, "draft") {
		t.Fatalf("draft leaked into listing:\n%s", out)
	}
}

func TestListFiltersByTag(t *testing.T) {
	withFixtureBuilder(t)
	out := run(t, "list", "--tag", "NOTES")

	if !strings.Contains(out, "alpha") || strings.Contains(out, "beta") {
		t.Fatalf("unexpected tag listing:\n%s", out)
	}
}

func TestListTagCounts(t *testing.T) {
	withFixtureBuilder(t)
	out := run(t, "list", "--tags")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "go") || !strings.HasSuffix(lines[0], "2") {
		t.Fatalf("unexpected tag counts:\n%s", out)
	}
}

func TestPreviewIncludesDrafts(t *testing.T) {
	withFixtureBuilder(t)
	out := run(t, "preview", "draft")

	if !strings.Contains(out, "Published: false") {
		t.Fatalf("expected draft metadata, got:\n%s", out)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Work in progress") {
		t.Fatalf("expected rendered HTML, got:\n%s", out)
	}
}

func TestPreviewUnknownSlugFails(t *testing.T) {
	withFixtureBuilder(t)
	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"preview", "missing"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for unknown slug")
	}
}

func TestBuildWritesArtifacts(t *testing.T) {
	withFixtureBuilder(t)
	dir := filepath.Join(t.TempDir(), "public")
	out := run(t, "build", "--out", dir)

	for _, name := range []string{"feed.xml", "atom.xml", "sitemap.xml", "robots.txt", "manifest.json", "manifest-dark.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output:\n%s", name, out)
		}
	}
}

func TestServeRejectsBlankAddress(t *testing.T) {
	withFixtureBuilder(t)
	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"serve", "--addr", " "})
	// a blank override is applied verbatim and must fail validation
	if err := root.Execute(); err == nil {
		t.Fatalf("expected validation error for blank address")
	}
}

type warnRecorder struct {
	warnings []string
}

func (r *warnRecorder) Trace(string, ...any)                             {}
func (r *warnRecorder) Debug(string, ...any)                             {}
func (r *warnRecorder) Info(string, ...any)                              {}
func (r *warnRecorder) Warn(msg string, _ ...any)                        { r.warnings = append(r.warnings, msg) }
func (r *warnRecorder) Error(string, ...any)                             {}
func (r *warnRecorder) Fatal(string, ...any)                             {}
func (r *warnRecorder) WithContext(context.Context) interfaces.Logger    { return r }

func TestWarnOpenRevalidate(t *testing.T) {
	cfg := blog.DefaultConfig()
	logger := &warnRecorder{}
	if !warnOpenRevalidate(cfg, logger) {
		t.Fatalf("expected a warning for the default blank secret")
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "http.revalidate_unprotected" {
		t.Fatalf("unexpected warnings %v", logger.warnings)
	}

	cfg.Cache.RevalidateSecret = "s3cret"
	logger = &warnRecorder{}
	if warnOpenRevalidate(cfg, logger) || len(logger.warnings) != 0 {
		t.Fatalf("expected no warning when a secret is configured, got %v", logger.warnings)
	}
}
