package posts

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultWordsPerMinute is the reading speed used for ReadingMinutes.
const DefaultWordsPerMinute = 200

// DefaultExtensions lists the recognised content extensions in priority order.
var DefaultExtensions = []string{".mdx", ".md"}

// Config controls discovery and derived fields.
type Config struct {
	// Extensions in priority order; a slug present under several extensions
	// resolves to the first one listed.
	Extensions []string
	// Recursive walks sub-directories. Slugs still come from the file stem.
	Recursive bool
	// WordsPerMinute drives ReadingMinutes. Zero uses DefaultWordsPerMinute.
	WordsPerMinute int
	// Workers bounds concurrent file renders during LoadAll. Zero uses GOMAXPROCS.
	Workers int
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for defaulted publish dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Store implements interfaces.PostStore over an fs.FS.
type Store struct {
	fs       fs.FS
	cfg      Config
	renderer interfaces.MarkdownRenderer
	logger   interfaces.Logger
	clock    func() time.Time
}

var _ interfaces.PostStore = (*Store)(nil)

// NewStore builds a store reading from filesystem. Rendering goes through renderer.
func NewStore(filesystem fs.FS, renderer interfaces.MarkdownRenderer, cfg Config, opts ...Option) *Store {
	s := &Store{
		fs:       filesystem,
		cfg:      normalizeConfig(cfg),
		renderer: renderer,
		logger:   logging.NoOp(),
		clock:    time.Now,
	}
	if s.renderer == nil {
		s.renderer = markdown.NewGoldmarkRenderer(markdown.DefaultRenderOptions(), nil)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewDirStore builds a store over a directory on disk. The directory does not
// need to exist yet; a missing root loads as zero posts.
func NewDirStore(dir string, renderer interfaces.MarkdownRenderer, cfg Config, opts ...Option) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return NewStore(os.DirFS(dir), renderer, cfg, opts...)
}

func normalizeConfig(cfg Config) Config {
	exts := make([]string, 0, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = slices.Clone(DefaultExtensions)
	}
	cfg.Extensions = exts
	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = DefaultWordsPerMinute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg
}

// LoadAll reads, renders and returns every published post, newest first with
// ties broken by slug. Files that fail are logged and skipped; a missing
// content root returns an empty list.
func (s *Store) LoadAll(ctx context.Context) ([]*interfaces.Post, error) {
	found, err := s.discover(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("posts.directory_missing", "error", err)
			return []*interfaces.Post{}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Error("posts.directory_unreadable", "error", err)
		return []*interfaces.Post{}, nil
	}

	unique, shadowed := dedupe(found)
	for _, c := range shadowed {
		s.logger.Warn("post.duplicate_slug", "slug", c.slug, "path", c.path)
	}

	results := make([]*interfaces.Post, len(unique))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Workers)
	for i, c := range unique {
		group.Go(func() error {
			post, err := s.load(gctx, c)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.WithPostContext(s.logger, c.slug, c.path).Error("post.skipped", "error", err)
				return nil
			}
			results[i] = post
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	published := make([]*interfaces.Post, 0, len(results))
	drafts := 0
	for _, post := range results {
		if post == nil {
			continue
		}
		if !post.Published {
			drafts++
			continue
		}
		published = append(published, post)
	}
	SortNewestFirst(published)

	s.logger.Info("posts.loaded",
		"published", len(published),
		"unpublished", drafts,
		"skipped", len(unique)-len(published)-drafts,
	)
	return published, nil
}

// LoadBySlug returns the published post for slug. Absent and unpublished
// slugs report interfaces.ErrNotFound; read, front matter and render failures
// keep their categorised error.
func (s *Store) LoadBySlug(ctx context.Context, slug string) (*interfaces.Post, error) {
	post, err := s.loadOne(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, post.Slug)
	}
	return post, nil
}

// LoadPreview is LoadBySlug without the published filter.
func (s *Store) LoadPreview(ctx context.Context, slug string) (*interfaces.Post, error) {
	return s.loadOne(ctx, slug)
}

func (s *Store) loadOne(ctx context.Context, slug string) (*interfaces.Post, error) {
	normalized, ok := NormalizeSlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", interfaces.ErrNotFound, slug)
	}

	c, found, err := s.locate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, normalized)
	}
	return s.load(ctx, c)
}

// locate resolves slug through the same discovery listing LoadAll uses, so
// hidden files stay invisible and duplicate stems pick the same winner.
func (s *Store) locate(ctx context.Context, slug string) (candidate, bool, error) {
	if err := ctx.Err(); err != nil {
		return candidate{}, false, err
	}

	found, err := s.discover(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return candidate{}, false, ctxErr
		}
		return candidate{}, false, nil
	}
	// sorted by slug, extension rank, path: the first match is dedupe's winner
	for _, c := range found {
		if c.slug == slug {
			return c, true, nil
		}
	}
	return candidate{}, false, nil
}

func (s *Store) load(ctx context.Context, c candidate) (*interfaces.Post, error) {
	data, err := fs.ReadFile(s.fs, c.path)
	if err != nil {
		return nil, wrapReadError(err, c.path)
	}

	fm, body, err := markdown.ParseFrontMatter(data)
	if err != nil {
		return nil, wrapMetadataError(err, c.path)
	}

	html, err := s.renderer.Render(ctx, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, wrapRenderError(err, c.path)
	}

	logger := logging.WithPostContext(s.logger, c.slug, c.path)
	post := applyDefaults(c.slug, fm, s.clock(), logger)
	post.BodyHTML = string(html)
	post.ReadingMinutes = readingMinutes(body, s.cfg.WordsPerMinute)
	post.SourcePath = c.path

	sum := sha256.Sum256(data)
	post.Checksum = hex.EncodeToString(sum[:])

	return post, nil
}

// SortNewestFirst orders posts by PublishedAt descending, then slug ascending.
func SortNewestFirst(list []*interfaces.Post) {
	slices.SortStableFunc(list, func(a, b *interfaces.Post) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
