package feeds

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// Sitemap lists the home page, every post and every tag page. Tag pages take
// the last modification of the newest post carrying the tag.
func Sitemap(site Site, posts []*interfaces.Post, tags []interfaces.TagSummary, generatedAt time.Time) string {
	entries := make([]sitemapEntry, 0, len(posts)+len(tags)+1)
	seen := map[string]struct{}{}
	add := func(location string, lastMod time.Time) {
		if _, ok := seen[location]; ok {
			return
		}
		seen[location] = struct{}{}
		if lastMod.IsZero() {
			lastMod = generatedAt
		}
		entries = append(entries, sitemapEntry{Location: location, LastMod: lastMod})
	}

	var home time.Time
	tagLastMod := map[string]time.Time{}
	for _, post := range posts {
		if post == nil {
			continue
		}
		lastMod := post.LastModified()
		if lastMod.After(home) {
			home = lastMod
		}
		for _, tag := range post.Tags {
			key := strings.ToLower(strings.TrimSpace(tag))
			if lastMod.After(tagLastMod[key]) {
				tagLastMod[key] = lastMod
			}
		}
	}

	add(site.AbsoluteURL("/"), home)
	for _, post := range posts {
		if post == nil {
			continue
		}
		add(site.PostURL(post.Slug), post.LastModified())
	}
	for _, tag := range tags {
		add(site.TagURL(tag.Name), tagLastMod[strings.ToLower(strings.TrimSpace(tag.Name))])
	}

	// home stays first; the rest sort by location
	rest := entries[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Location < rest[j].Location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Location)))
		builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		builder.WriteString("  </url>\n")
	}
	builder.WriteString(`</urlset>` + "\n")
	return builder.String()
}

// Robots allows every crawler and points at the sitemap.
func Robots(site Site) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Sitemap: %s\n", site.AbsoluteURL("/sitemap.xml")))
	return builder.String()
}
