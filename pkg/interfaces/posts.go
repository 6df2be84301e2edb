package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a slug with no published post behind it. Missing
// content is an expected outcome; callers should branch on errors.Is.
var ErrNotFound = errors.New("post not found")

// Post is the parsed and rendered form of one content file. Records are
// immutable once built by the store; consumers must not modify them.
type Post struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	PublishedAt    time.Time  `json:"published_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Summary        string     `json:"summary"`
	Tags           []string   `json:"tags"`
	BodyHTML       string     `json:"body_html"`
	Published      bool       `json:"published"`
	ReadingMinutes int        `json:"reading_minutes"`
	SourcePath     string     `json:"source_path"`
	Checksum       string     `json:"checksum"`
}

// LastModified returns UpdatedAt when present, otherwise PublishedAt.
func (p *Post) LastModified() time.Time {
	if p == nil {
		return time.Time{}
	}
	if p.UpdatedAt != nil && !p.UpdatedAt.IsZero() {
		return *p.UpdatedAt
	}
	return p.PublishedAt
}

// TagSummary aggregates how many published posts carry a tag.
type TagSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PostStore reads posts from the content source.
type PostStore interface {
	// LoadAll returns every published post sorted newest first.
	LoadAll(ctx context.Context) ([]*Post, error)
	// LoadBySlug returns a single published post or an error matching ErrNotFound.
	LoadBySlug(ctx context.Context, slug string) (*Post, error)
	// LoadPreview behaves like LoadBySlug but also returns unpublished posts.
	LoadPreview(ctx context.Context, slug string) (*Post, error)
}

// PostIndex exposes the cached query surface consumed by presentation layers.
type PostIndex interface {
	All(ctx context.Context) ([]*Post, error)
	BySlug(ctx context.Context, slug string) (*Post, error)
	ByTag(ctx context.Context, tag string) ([]*Post, error)
	Tags(ctx context.Context) ([]TagSummary, error)
	Search(ctx context.Context, query string) ([]*Post, error)
	Preview(ctx context.Context, slug string) (*Post, error)
	Invalidate()
}
