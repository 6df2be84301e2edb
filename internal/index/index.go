package index

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Config controls cache lifetime and preview access.
type Config struct {
	// Revalidate rebuilds a snapshot older than this window on the next call.
	// Zero keeps the snapshot until Invalidate.
	Revalidate time.Duration
	// PreviewEnabled lets Preview return unpublished posts.
	PreviewEnabled bool
}

// Option customises an Index.
type Option func(*Index)

// WithLogger sets the index logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(ix *Index) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithClock overrides the clock used for the revalidation window.
func WithClock(clock func() time.Time) Option {
	return func(ix *Index) {
		if clock != nil {
			ix.clock = clock
		}
	}
}

// Index implements interfaces.PostIndex on top of a PostStore.
type Index struct {
	store  interfaces.PostStore
	cfg    Config
	logger interfaces.Logger
	clock  func() time.Time

	// swapMu orders Invalidate against the conditional store in populate.
	// Readers load current without it.
	swapMu     sync.Mutex
	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
	loads      singleflight.Group
}

var _ interfaces.PostIndex = (*Index)(nil)

// New builds an empty index. Nothing is loaded until the first query or Warm.
func New(store interfaces.PostStore, cfg Config, opts ...Option) *Index {
	ix := &Index{
		store:  store,
		cfg:    cfg,
		logger: logging.NoOp(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ix)
		}
	}
	return ix
}

// Warm populates the snapshot eagerly.
func (ix *Index) Warm(ctx context.Context) error {
	_, err := ix.snapshot(ctx)
	return err
}

// Invalidate drops the snapshot. Loads already in flight finish for their
// callers but are not kept.
func (ix *Index) Invalidate() {
	ix.swapMu.Lock()
	ix.generation.Add(1)
	ix.current.Store(nil)
	ix.swapMu.Unlock()
	ix.logger.Info("index.invalidated")
}

// LoadedAt reports when the current snapshot was built.
func (ix *Index) LoadedAt() (time.Time, bool) {
	snap := ix.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.loadedAt, true
}

// All returns published posts newest first.
func (ix *Index) All(ctx context.Context) ([]*interfaces.Post, error) {
	snap, err := ix.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.posts), nil
}

// BySlug returns one published post. A cold index asks the store for the
// single file instead of scanning the whole collection.
func (ix *Index) BySlug(ctx context.Context, slug string) (*interfaces.Post, error) {
	normalized, ok := posts.NormalizeSlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", interfaces.ErrNotFound, slug)
	}

	if snap := ix.fresh(); snap != nil {
		if post, found := snap.bySlug[normalized]; found {
			return post, nil
		}
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, normalized)
	}

	post, err := ix.store.LoadBySlug(ctx, normalized)
	return ix.single(ctx, normalized, post, err)
}

// Preview returns a post regardless of its published flag when previews are
// enabled; otherwise it behaves like BySlug. Previews always read the store.
func (ix *Index) Preview(ctx context.Context, slug string) (*interfaces.Post, error) {
	if !ix.cfg.PreviewEnabled {
		return ix.BySlug(ctx, slug)
	}
	normalized, ok := posts.NormalizeSlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", interfaces.ErrNotFound, slug)
	}
	post, err := ix.store.LoadPreview(ctx, normalized)
	return ix.single(ctx, normalized, post, err)
}

// single folds store failures for one slug into not-found; the collection
// excludes the same files, so both views agree.
func (ix *Index) single(ctx context.Context, slug string, post *interfaces.Post, err error) (*interfaces.Post, error) {
	if err == nil {
		return post, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}
	logging.WithPostContext(ix.logger, slug, "").Warn("index.lookup_failed", "error", err)
	return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, slug)
}

// ByTag returns the published posts carrying tag, compared trimmed and
// case-insensitively, in All order.
func (ix *Index) ByTag(ctx context.Context, tag string) ([]*interfaces.Post, error) {
	key := tagKey(tag)
	if key == "" {
		return []*interfaces.Post{}, nil
	}
	snap, err := ix.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.byTag[key]), nil
}

// Tags returns one summary per distinct tag, most used first.
func (ix *Index) Tags(ctx context.Context) ([]interfaces.TagSummary, error) {
	snap, err := ix.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.tags), nil
}

// Search returns published posts whose title, summary, body text or tags
// contain query, ignoring case. A blank query matches nothing.
func (ix *Index) Search(ctx context.Context, query string) ([]*interfaces.Post, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []*interfaces.Post{}, nil
	}
	snap, err := ix.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*interfaces.Post, 0)
	for i, text := range snap.searchText {
		if strings.Contains(text, needle) {
			matches = append(matches, snap.posts[i])
		}
	}
	return matches, nil
}

// fresh returns the current snapshot when it is still inside the
// revalidation window.
func (ix *Index) fresh() *snapshot {
	snap := ix.current.Load()
	if snap == nil {
		return nil
	}
	if ix.cfg.Revalidate > 0 && ix.clock().Sub(snap.loadedAt) >= ix.cfg.Revalidate {
		return nil
	}
	return snap
}

func (ix *Index) snapshot(ctx context.Context) (*snapshot, error) {
	if snap := ix.fresh(); snap != nil {
		return snap, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen := ix.generation.Load()
	ch := ix.loads.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		if snap := ix.fresh(); snap != nil {
			return snap, nil
		}
		// shared by every caller of this key; outlives any single caller's context
		return ix.populate(context.WithoutCancel(ctx), gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

// storeIfCurrent installs snap unless Invalidate ran after gen was read.
func (ix *Index) storeIfCurrent(snap *snapshot, gen uint64) {
	ix.swapMu.Lock()
	defer ix.swapMu.Unlock()
	if ix.generation.Load() == gen {
		ix.current.Store(snap)
	}
}

func (ix *Index) populate(ctx context.Context, gen uint64) (*snapshot, error) {
	started := ix.clock()
	list, err := ix.store.LoadAll(ctx)
	if err != nil {
		ix.logger.Error("index.populate_failed", "error", err)
		return nil, err
	}

	snap := buildSnapshot(list, ix.clock())
	ix.storeIfCurrent(snap, gen)

	ix.logger.Info("index.populated",
		"posts", len(snap.posts),
		"tags", len(snap.tags),
		"duration", ix.clock().Sub(started).String(),
	)
	return snap, nil
}
