package posts

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLoadAll_SortsNewestFirstAndFiltersUnpublished(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"a.mdx":     file("title: A\ndate: 2024-01-01\ntags: [x, y]\npublished: true", "alpha"),
		"b.mdx":     file("title: B\ndate: 2024-02-01\ntags: [y]\npublished: true", "beta"),
		"draft.mdx": file("title: Draft\ndate: 2024-03-01\npublished: false", "hidden"),
	})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if got := slugs(posts); got != "b,a" {
		t.Fatalf("expected b,a got %s", got)
	}
}

func TestLoadAll_TieBreaksBySlug(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"zeta.md":  file("date: 2024-01-01", "z"),
		"alpha.md": file("date: 2024-01-01", "a"),
		"mid.md":   file("date: 2024-01-01", "m"),
	})

	for i := 0; i < 3; i++ {
		posts, err := store.LoadAll(context.Background())
		if err != nil {
			t.Fatalf("LoadAll: %v", err)
		}
		if got := slugs(posts); got != "alpha,mid,zeta" {
			t.Fatalf("run %d: expected alpha,mid,zeta got %s", i, got)
		}
	}
}

func TestLoadAll_AppliesDefaults(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"bare.mdx": &fstest.MapFile{Data: []byte("no front matter here\n")},
	})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	post := posts[0]
	if post.Title != "bare" {
		t.Fatalf("expected title to default to slug, got %q", post.Title)
	}
	if !post.Published {
		t.Fatalf("expected published to default to true")
	}
	if !post.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected date to default to clock, got %v", post.PublishedAt)
	}
	if post.Summary != "" || len(post.Tags) != 0 || post.UpdatedAt != nil {
		t.Fatalf("unexpected defaults: %#v", post)
	}
	if post.ReadingMinutes != 1 {
		t.Fatalf("expected 1 reading minute, got %d", post.ReadingMinutes)
	}
	if !strings.Contains(post.BodyHTML, "<p>no front matter here</p>") {
		t.Fatalf("expected rendered body, got %q", post.BodyHTML)
	}
	if post.SourcePath != "bare.mdx" || len(post.Checksum) != 64 {
		t.Fatalf("expected source path and checksum, got %q %q", post.SourcePath, post.Checksum)
	}
}

func TestLoadAll_CoercesLooseMetadata(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"loose.md": file(`title: 2024
date: "2024-02-01 10:30:00"
updated: not-a-date
tags: "Go, go , cms,, Web"
published: "yes"`, "body"),
	})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	post := posts[0]
	if post.Title != "2024" {
		t.Fatalf("expected numeric title to be stringified, got %q", post.Title)
	}
	want := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	if !post.PublishedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, post.PublishedAt)
	}
	if post.UpdatedAt != nil {
		t.Fatalf("expected invalid updated to be ignored, got %v", post.UpdatedAt)
	}
	if strings.Join(post.Tags, "|") != "Go|cms|Web" {
		t.Fatalf("expected de-duplicated tags, got %v", post.Tags)
	}
}

func TestReadingMinutes(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
	}
	for _, tc := range cases {
		body := []byte(strings.TrimSpace(strings.Repeat("word\n ", tc.words)))
		if got := readingMinutes(body, DefaultWordsPerMinute); got != tc.want {
			t.Fatalf("readingMinutes(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestLoadAll_ReadingMinutesUsesRawBody(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("**word** ", 400))
	store := newTestStore(t, fstest.MapFS{
		"long.md": file("date: 2024-01-01", body),
	})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if posts[0].ReadingMinutes != 2 {
		t.Fatalf("expected 2 minutes for 400 words, got %d", posts[0].ReadingMinutes)
	}
}

func TestLoadAll_SkipsBrokenFiles(t *testing.T) {
	renderer := &failingRenderer{fail: "explode"}
	store := NewStore(fstest.MapFS{
		"good.md":      file("date: 2024-01-01", "fine"),
		"malformed.md": &fstest.MapFile{Data: []byte("---\ntitle: [oops\n---\nbody\n")},
		"broken.md":    file("date: 2024-01-02", "explode"),
	}, renderer, Config{}, WithClock(func() time.Time { return fixedNow }))

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := slugs(posts); got != "good" {
		t.Fatalf("expected only good post, got %s", got)
	}

	_, err = store.LoadBySlug(context.Background(), "malformed")
	if !goerrors.IsCategory(err, CategoryMetadata) {
		t.Fatalf("expected metadata category, got %v", err)
	}

	_, err = store.LoadBySlug(context.Background(), "broken")
	if !goerrors.IsCategory(err, CategoryRender) {
		t.Fatalf("expected render category, got %v", err)
	}
}

func TestLoadAll_MissingDirectoryIsEmpty(t *testing.T) {
	store := NewDirStore(filepath.Join(t.TempDir(), "missing"), nil, Config{})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected no posts, got %d", len(posts))
	}

	if _, err := store.LoadBySlug(context.Background(), "anything"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadAll_DuplicateSlugPrefersFirstExtension(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"dup.md":  file("title: From MD\ndate: 2024-01-01", "md"),
		"dup.mdx": file("title: From MDX\ndate: 2024-01-01", "mdx"),
	})

	posts, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "From MDX" {
		t.Fatalf("expected the .mdx file to win, got %#v", posts)
	}
}

func TestLoadAll_RecursionAndHiddenFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"top.md":          file("date: 2024-01-01", "top"),
		"2024/nested.md":  file("date: 2024-01-02", "nested"),
		".hidden.md":      file("date: 2024-01-03", "hidden"),
		"_drafts/wip.md":  file("date: 2024-01-04", "wip"),
		"notes.txt":       &fstest.MapFile{Data: []byte("ignored")},
		"2024/readme.txt": &fstest.MapFile{Data: []byte("ignored")},
	}

	flat := NewStore(fsys, nil, Config{}, WithClock(func() time.Time { return fixedNow }))
	posts, err := flat.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := slugs(posts); got != "top" {
		t.Fatalf("expected only top-level post, got %s", got)
	}

	deep := NewStore(fsys, nil, Config{Recursive: true}, WithClock(func() time.Time { return fixedNow }))
	posts, err = deep.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := slugs(posts); got != "nested,top" {
		t.Fatalf("expected nested,top got %s", got)
	}

	post, err := deep.LoadBySlug(context.Background(), "nested")
	if err != nil {
		t.Fatalf("LoadBySlug nested: %v", err)
	}
	if post.SourcePath != "2024/nested.md" {
		t.Fatalf("unexpected source path %q", post.SourcePath)
	}
}

func TestLoadBySlug(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"Hello.MDX": file("title: Hello\ndate: 2024-01-01", "hi"),
		"draft.mdx": file("title: Draft\npublished: false", "wip"),
	})
	ctx := context.Background()

	post, err := store.LoadBySlug(ctx, " HELLO ")
	if err != nil {
		t.Fatalf("LoadBySlug: %v", err)
	}
	if post.Slug != "hello" {
		t.Fatalf("expected lowercased slug, got %q", post.Slug)
	}

	for _, slug := range []string{"missing", "", "..", "../hello", `a\b`} {
		if _, err := store.LoadBySlug(ctx, slug); !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("LoadBySlug(%q): expected ErrNotFound, got %v", slug, err)
		}
	}

	if _, err := store.LoadBySlug(ctx, "draft"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected unpublished post to be not found, got %v", err)
	}

	preview, err := store.LoadPreview(ctx, "draft")
	if err != nil {
		t.Fatalf("LoadPreview: %v", err)
	}
	if preview.Published {
		t.Fatalf("expected preview to expose the unpublished flag")
	}
}

func TestLoadBySlug_AgreesWithLoadAll(t *testing.T) {
	cases := []struct {
		name      string
		fsys      fstest.MapFS
		recursive bool
		slug      string
		title     string
	}{
		{
			name: "mixed case stem with better extension",
			fsys: fstest.MapFS{
				"Hello.mdx": file("title: FromMDX\ndate: 2024-01-01", "mdx"),
				"hello.md":  file("title: FromMD\ndate: 2024-01-01", "md"),
			},
			slug:  "hello",
			title: "FromMDX",
		},
		{
			name: "nested file with better extension",
			fsys: fstest.MapFS{
				"sub/foo.mdx": file("title: Nested\ndate: 2024-01-01", "nested"),
				"foo.md":      file("title: Root\ndate: 2024-01-01", "root"),
			},
			recursive: true,
			slug:      "foo",
			title:     "Nested",
		},
		{
			name: "same extension resolves by path",
			fsys: fstest.MapFS{
				"a/dup.md": file("title: First\ndate: 2024-01-01", "a"),
				"dup.md":   file("title: Second\ndate: 2024-01-01", "root"),
			},
			recursive: true,
			slug:      "dup",
			title:     "First",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore(tc.fsys, nil, Config{Recursive: tc.recursive}, WithClock(func() time.Time { return fixedNow }))
			ctx := context.Background()

			all, err := store.LoadAll(ctx)
			if err != nil {
				t.Fatalf("LoadAll: %v", err)
			}
			if len(all) != 1 || all[0].Title != tc.title {
				t.Fatalf("LoadAll: expected single post %q, got %#v", tc.title, all)
			}

			post, err := store.LoadBySlug(ctx, tc.slug)
			if err != nil {
				t.Fatalf("LoadBySlug: %v", err)
			}
			if post.Title != tc.title || post.SourcePath != all[0].SourcePath {
				t.Fatalf("LoadBySlug resolved %q (%s), LoadAll resolved %q (%s)", post.Title, post.SourcePath, all[0].Title, all[0].SourcePath)
			}
		})
	}
}

func TestLoadBySlug_IgnoresHiddenFiles(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{
		"a.mdx":      file("title: A\ndate: 2024-01-01", "a"),
		"_draft.mdx": file("title: Draft\ndate: 2024-01-02", "draft"),
		".secret.md": file("title: Secret\ndate: 2024-01-03", "secret"),
	})
	ctx := context.Background()

	for _, slug := range []string{"_draft", ".secret"} {
		if _, err := store.LoadBySlug(ctx, slug); !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("LoadBySlug(%q): expected ErrNotFound, got %v", slug, err)
		}
		if _, err := store.LoadPreview(ctx, slug); !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("LoadPreview(%q): expected ErrNotFound, got %v", slug, err)
		}
	}
}

func TestLoadAll_RendersEachFileOnce(t *testing.T) {
	counter := &countingRenderer{next: markdown.NewGoldmarkRenderer(markdown.DefaultRenderOptions(), nil)}
	store := NewStore(fstest.MapFS{
		"one.md":   file("date: 2024-01-01", "1"),
		"two.md":   file("date: 2024-01-02", "2"),
		"three.md": file("date: 2024-01-03", "3"),
	}, counter, Config{Workers: 2})

	if _, err := store.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got := counter.calls.Load(); got != 3 {
		t.Fatalf("expected 3 renders, got %d", got)
	}
}

func TestLoadAll_HonoursCancellation(t *testing.T) {
	store := newTestStore(t, fstest.MapFS{"a.md": file("date: 2024-01-01", "a")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.LoadAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeConfig(t *testing.T) {
	cfg := normalizeConfig(Config{Extensions: []string{"MD", ".md", " ", ".mdx"}})
	if strings.Join(cfg.Extensions, ",") != ".md,.mdx" {
		t.Fatalf("unexpected extensions %v", cfg.Extensions)
	}
	if cfg.WordsPerMinute != DefaultWordsPerMinute || cfg.Workers <= 0 {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func newTestStore(tb testing.TB, fsys fstest.MapFS) *Store {
	tb.Helper()
	return NewStore(fsys, nil, Config{}, WithClock(func() time.Time { return fixedNow }))
}

func file(frontMatter, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + frontMatter + "\n---\n" + body + "\n")}
}

func slugs(posts []*interfaces.Post) string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.Slug)
	}
	return strings.Join(out, ",")
}

type failingRenderer struct {
	fail string
}

func (r *failingRenderer) Render(_ context.Context, body []byte) ([]byte, error) {
	if strings.Contains(string(body), r.fail) {
		return nil, &markdown.RenderError{Source: body, Err: errors.New("unsupported construct")}
	}
	return []byte("<p>" + strings.TrimSpace(string(body)) + "</p>"), nil
}

type countingRenderer struct {
	calls atomic.Int64
	next  interfaces.MarkdownRenderer
}

func (r *countingRenderer) Render(ctx context.Context, body []byte) ([]byte, error) {
	r.calls.Add(1)
	return r.next.Render(ctx, body)
}
