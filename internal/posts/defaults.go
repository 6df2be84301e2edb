package posts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// dateLayouts lists the accepted front matter date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	"January 2, 2006",
}

// applyDefaults is the single place where partial front matter becomes a
// fully populated post. Missing or malformed values fall back as follows:
//
//	title      -> slug
//	date       -> now (logged as post.date_defaulted)
//	updated    -> unset
//	summary    -> ""
//	tags       -> none; trimmed, blanks dropped, de-duplicated ignoring case
//	published  -> true unless explicitly false
func applyDefaults(slug string, fm markdown.FrontMatter, now time.Time, logger interfaces.Logger) *interfaces.Post {
	post := &interfaces.Post{
		Slug:      slug,
		Title:     stringValue(fm.Title),
		Summary:   stringValue(fm.Summary),
		Tags:      tagsValue(fm.Tags),
		Published: true,
	}

	if post.Title == "" {
		post.Title = slug
	}

	if published, ok := boolValue(fm.Published); ok {
		post.Published = published
	} else if fm.Has("published") && fm.Published != nil {
		logger.Warn("post.published_defaulted", "value", fmt.Sprint(fm.Published))
	}

	if ts, ok := timeValue(fm.Date); ok {
		post.PublishedAt = ts
	} else {
		reason := "missing"
		if fm.Date != nil {
			reason = "invalid"
		}
		logger.Warn("post.date_defaulted", "reason", reason, "value", fmt.Sprint(fm.Date))
		post.PublishedAt = now
	}

	if ts, ok := timeValue(fm.Updated); ok {
		post.UpdatedAt = &ts
	} else if fm.Updated != nil {
		logger.Warn("post.updated_ignored", "value", fmt.Sprint(fm.Updated))
	}

	return post
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func timeValue(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func boolValue(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "on":
			return true, true
		case "no", "off":
			return false, true
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}

func tagsValue(value any) []string {
	var candidates []string
	switch v := value.(type) {
	case nil:
		return []string{}
	case string:
		candidates = strings.Split(v, ",")
	case []string:
		candidates = v
	case []any:
		candidates = make([]string, 0, len(v))
		for _, item := range v {
			candidates = append(candidates, stringValue(item))
		}
	default:
		candidates = []string{stringValue(v)}
	}

	tags := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		tag := strings.TrimSpace(candidate)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// readingMinutes is ceil(words/wordsPerMinute) with a floor of one minute.
// Words are whitespace-delimited tokens of the raw Markdown body.
func readingMinutes(body []byte, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(string(body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
