package feeds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Artifact is one generated file.
type Artifact struct {
	Path        string
	ContentType string
	Body        []byte
}

// Build renders every derived artifact from the index: feeds, sitemap,
// robots.txt and both manifest variants.
func Build(ctx context.Context, index interfaces.PostIndex, site Site, generatedAt time.Time) ([]Artifact, error) {
	posts, err := index.All(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := index.Tags(ctx)
	if err != nil {
		return nil, err
	}

	light, err := Manifest(site, ThemeLight)
	if err != nil {
		return nil, err
	}
	dark, err := Manifest(site, ThemeDark)
	if err != nil {
		return nil, err
	}

	return []Artifact{
		{Path: "feed.xml", ContentType: ContentTypeRSS, Body: []byte(RSS(site, posts, generatedAt))},
		{Path: "atom.xml", ContentType: ContentTypeAtom, Body: []byte(Atom(site, posts, generatedAt))},
		{Path: "sitemap.xml", ContentType: ContentTypeXML, Body: []byte(Sitemap(site, posts, tags, generatedAt))},
		{Path: "robots.txt", ContentType: ContentTypeText, Body: []byte(Robots(site))},
		{Path: "manifest.json", ContentType: ContentTypeManifest, Body: light},
		{Path: "manifest-dark.json", ContentType: ContentTypeManifest, Body: dark},
	}, nil
}

// Content types served for each artifact.
const (
	ContentTypeRSS      = "application/rss+xml; charset=utf-8"
	ContentTypeAtom     = "application/atom+xml; charset=utf-8"
	ContentTypeXML      = "application/xml; charset=utf-8"
	ContentTypeText     = "text/plain; charset=utf-8"
	ContentTypeManifest = "application/manifest+json"
)

// WriteDir writes artifacts under dir, creating it when needed.
func WriteDir(ctx context.Context, dir string, artifacts []Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("feeds: create output dir: %w", err)
	}
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(artifact.Path))
		if err := os.WriteFile(target, artifact.Body, 0o644); err != nil {
			return fmt.Errorf("feeds: write %s: %w", artifact.Path, err)
		}
	}
	return nil
}
