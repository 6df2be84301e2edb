package index

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// snapshot is an immutable view of one collection load.
type snapshot struct {
	posts      []*interfaces.Post
	bySlug     map[string]*interfaces.Post
	byTag      map[string][]*interfaces.Post
	tags       []interfaces.TagSummary
	searchText []string
	loadedAt   time.Time
}

// buildSnapshot derives every lookup structure from list, which must already
// be sorted newest first and contain published posts only.
func buildSnapshot(list []*interfaces.Post, loadedAt time.Time) *snapshot {
	snap := &snapshot{
		posts:      make([]*interfaces.Post, 0, len(list)),
		bySlug:     make(map[string]*interfaces.Post, len(list)),
		byTag:      map[string][]*interfaces.Post{},
		searchText: make([]string, 0, len(list)),
		loadedAt:   loadedAt,
	}

	names := map[string]string{}
	var order []string

	for _, post := range list {
		if post == nil || !post.Published {
			continue
		}
		if _, dup := snap.bySlug[post.Slug]; dup {
			continue
		}
		snap.posts = append(snap.posts, post)
		snap.bySlug[post.Slug] = post
		snap.searchText = append(snap.searchText, searchText(post))

		seen := map[string]struct{}{}
		for _, tag := range post.Tags {
			key := tagKey(tag)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, known := names[key]; !known {
				// newest post first, so the first spelling seen is the newest
				names[key] = strings.TrimSpace(tag)
				order = append(order, key)
			}
			snap.byTag[key] = append(snap.byTag[key], post)
		}
	}

	snap.tags = make([]interfaces.TagSummary, 0, len(order))
	for _, key := range order {
		snap.tags = append(snap.tags, interfaces.TagSummary{
			Name:  names[key],
			Count: len(snap.byTag[key]),
		})
	}
	slices.SortStableFunc(snap.tags, compareTags)

	return snap
}

// compareTags orders by count descending, then name ignoring case.
func compareTags(a, b interfaces.TagSummary) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func tagKey(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// searchText joins the searchable fields with newlines so a query cannot
// match across two fields.
func searchText(post *interfaces.Post) string {
	parts := []string{
		post.Title,
		post.Summary,
		markdown.PlainText(post.BodyHTML),
		strings.Join(post.Tags, "\n"),
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}
