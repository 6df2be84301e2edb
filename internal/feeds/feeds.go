package feeds

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const summaryFallbackRunes = 280

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	Categories  []string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// feedItems projects the newest posts into feed entries. posts must already
// be sorted newest first.
func feedItems(site Site, posts []*interfaces.Post) []feedItem {
	limit := site.feedLimit()
	if len(posts) > limit {
		posts = posts[:limit]
	}
	items := make([]feedItem, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		link := site.PostURL(post.Slug)
		items = append(items, feedItem{
			Title:       post.Title,
			Summary:     feedSummary(post),
			Link:        link,
			GUID:        EntryID(link),
			Categories:  post.Tags,
			PublishedAt: post.PublishedAt,
			UpdatedAt:   post.LastModified(),
		})
	}
	return items
}

// EntryID derives a stable URN for a feed entry from its permalink.
func EntryID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).URN()
}

func feedSummary(post *interfaces.Post) string {
	if summary := strings.TrimSpace(post.Summary); summary != "" {
		return strings.Join(strings.Fields(summary), " ")
	}
	text := markdown.PlainText(post.BodyHTML)
	if utf8.RuneCountInString(text) <= summaryFallbackRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:summaryFallbackRunes])) + "…"
}

// RSS renders an RSS 2.0 document for the newest posts.
func RSS(site Site, posts []*interfaces.Post, generatedAt time.Time) string {
	items := feedItems(site, posts)
	lastBuild := latestUpdate(items, generatedAt)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(site.title())))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(site.AbsoluteURL("/"))))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(site.description())))
	if lang := strings.TrimSpace(site.Language); lang != "" {
		builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(lang)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", lastBuild.UTC().Format(time.RFC1123Z)))
	builder.WriteString(fmt.Sprintf(`    <atom:link href="%s" rel="self" type="application/rss+xml" />`+"\n", escapeXMLAttr(site.AbsoluteURL("/feed.xml"))))
	for _, item := range items {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", item.PublishedAt.UTC().Format(time.RFC1123Z)))
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

// Atom renders an Atom 1.0 document for the newest posts.
func Atom(site Site, posts []*interfaces.Post, generatedAt time.Time) string {
	items := feedItems(site, posts)
	selfLink := site.AbsoluteURL("/atom.xml")
	updated := latestUpdate(items, generatedAt)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if lang := strings.TrimSpace(site.Language); lang != "" {
		builder.WriteString(fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXMLAttr(lang)))
	} else {
		builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	}
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(EntryID(selfLink))))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(site.title())))
	builder.WriteString(fmt.Sprintf("  <subtitle>%s</subtitle>\n", escapeXML(site.description())))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(site.AbsoluteURL("/"))))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(selfLink)))
	if author := strings.TrimSpace(site.Author); author != "" {
		builder.WriteString(fmt.Sprintf("  <author><name>%s</name></author>\n", escapeXML(author)))
	}
	for _, item := range items {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXMLAttr(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", item.UpdatedAt.UTC().Format(time.RFC3339)))
		builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf(`    <category term="%s" />`+"\n", escapeXMLAttr(category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

// latestUpdate is the newest UpdatedAt across items, or fallback when empty.
func latestUpdate(items []feedItem, fallback time.Time) time.Time {
	if len(items) == 0 {
		return fallback
	}
	latest := items[0].UpdatedAt
	for _, item := range items[1:] {
		if item.UpdatedAt.After(latest) {
			latest = item.UpdatedAt
		}
	}
	return latest
}

func escapeXML(value string) string {
	return html.EscapeString(stripInvalidXMLChars(value))
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(stripInvalidXMLChars(value))
}

// stripInvalidXMLChars drops runes outside the XML 1.0 Char production.
// Escaping cannot represent them; &#x1; is itself ill-formed.
func stripInvalidXMLChars(value string) string {
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, value)
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
