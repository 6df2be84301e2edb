package blog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/logging/console"
)

func newModule(t *testing.T, fsys fstest.MapFS) *blog.Module {
	t.Helper()
	quiet := console.LevelFatal
	module, err := blog.New(blog.DefaultConfig(),
		di.WithContentFS(fsys),
		di.WithLoggerProvider(console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &quiet})),
		di.WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("blog.New: %v", err)
	}
	return module
}

func TestModuleExampleScenario(t *testing.T) {
	module := newModule(t, fstest.MapFS{
		"a.mdx": &fstest.MapFile{Data: []byte("---\ntitle: A\ndate: 2024-01-01\ntags: [x, y]\npublished: true\n---\nalpha\n")},
		"b.mdx": &fstest.MapFile{Data: []byte("---\ntitle: B\ndate: 2024-02-01\ntags: [y]\npublished: true\n---\nbeta\n")},
	})
	ctx := context.Background()

	all, err := module.Posts().All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	got := []string{}
	for _, post := range all {
		got = append(got, post.Slug)
	}
	if diff := cmp.Diff([]string{"b", "a"}, got); diff != "" {
		t.Fatalf("All mismatch (-want +got):\n%s", diff)
	}

	tags, err := module.Posts().Tags(ctx)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []blog.TagSummary{{Name: "y", Count: 2}, {Name: "x", Count: 1}}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("Tags mismatch (-want +got):\n%s", diff)
	}

	if _, err := module.Posts().BySlug(ctx, "missing"); !errors.Is(err, blog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestModuleBuildWritesArtifacts(t *testing.T) {
	module := newModule(t, fstest.MapFS{
		"hello.md": &fstest.MapFile{Data: []byte("---\ntitle: Hello\ndate: 2024-01-01\n---\nHi.\n")},
	})
	dir := filepath.Join(t.TempDir(), "out")

	artifacts, err := module.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(artifacts) != 6 {
		t.Fatalf("expected 6 artifacts, got %d", len(artifacts))
	}
	for _, artifact := range artifacts {
		if _, err := os.Stat(filepath.Join(dir, artifact.Path)); err != nil {
			t.Fatalf("expected %s on disk: %v", artifact.Path, err)
		}
	}
}

func TestModuleRevalidate(t *testing.T) {
	fsys := fstest.MapFS{
		"one.md": &fstest.MapFile{Data: []byte("---\ndate: 2024-01-01\n---\n1\n")},
	}
	module := newModule(t, fsys)
	ctx := context.Background()

	if err := module.Warm(ctx); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	fsys["two.md"] = &fstest.MapFile{Data: []byte("---\ndate: 2024-01-02\n---\n2\n")}

	all, _ := module.Posts().All(ctx)
	if len(all) != 1 {
		t.Fatalf("expected cached collection, got %d posts", len(all))
	}

	module.Revalidate()
	all, _ = module.Posts().All(ctx)
	if len(all) != 2 || all[0].Slug != "two" {
		t.Fatalf("expected reload after Revalidate, got %d posts", len(all))
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := blog.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := blog.New(cfg); !errors.Is(err, blog.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}
