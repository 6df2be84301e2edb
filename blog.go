package blog

import (
	"context"
	"net/http"

	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Post exports the post record.
type Post = interfaces.Post

// TagSummary exports the per-tag post count.
type TagSummary = interfaces.TagSummary

// PostIndex exports the cached query contract.
type PostIndex = interfaces.PostIndex

// ErrNotFound reports a slug with no published post.
var ErrNotFound = interfaces.ErrNotFound

// Module represents the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the cached query surface.
func (m *Module) Posts() PostIndex {
	return m.container.Index()
}

// Store returns the uncached content store.
func (m *Module) Store() interfaces.PostStore {
	return m.container.Store()
}

// Warm loads the collection eagerly.
func (m *Module) Warm(ctx context.Context) error {
	return m.container.Index().Warm(ctx)
}

// Revalidate drops the cached collection; the next query reloads it.
func (m *Module) Revalidate() {
	m.container.Index().Invalidate()
}

// Handler returns the HTTP surface with its middleware stack.
func (m *Module) Handler() http.Handler {
	return m.container.API().Handler()
}

// Build renders every derived artifact and writes them under dir.
func (m *Module) Build(ctx context.Context, dir string) ([]feeds.Artifact, error) {
	artifacts, err := feeds.Build(ctx, m.container.Index(), m.container.Site(), m.container.Clock()())
	if err != nil {
		return nil, err
	}
	if err := feeds.WriteDir(ctx, dir, artifacts); err != nil {
		return nil, err
	}
	return artifacts, nil
}
