package feeds

import (
	"net/url"
	"strings"
)

const (
	// DefaultFeedLimit caps the number of posts in RSS and Atom output.
	DefaultFeedLimit = 20
	fallbackBaseURL  = "http://localhost"
)

// Palette is one colour scheme for the web manifest.
type Palette struct {
	ThemeColor      string `json:"theme_color" yaml:"theme_color"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
}

// Site describes the blog as published.
type Site struct {
	BaseURL     string
	Title       string
	ShortName   string
	Description string
	Author      string
	Language    string
	FeedLimit   int
	Light       Palette
	Dark        Palette
}

func (s Site) baseURL() string {
	trimmed := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if trimmed == "" {
		return fallbackBaseURL
	}
	return trimmed
}

func (s Site) title() string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return s.baseURL()
}

func (s Site) description() string {
	if desc := strings.TrimSpace(s.Description); desc != "" {
		return desc
	}
	return "Latest posts"
}

func (s Site) feedLimit() int {
	if s.FeedLimit <= 0 {
		return DefaultFeedLimit
	}
	return s.FeedLimit
}

// AbsoluteURL joins route onto the site base URL.
func (s Site) AbsoluteURL(route string) string {
	base := s.baseURL()
	normalized := strings.TrimSpace(route)
	if normalized == "" || normalized == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return base + normalized
}

// PostURL is the public location of a post.
func (s Site) PostURL(slug string) string {
	return s.AbsoluteURL("/posts/" + url.PathEscape(slug))
}

// TagURL is the public location of a tag listing.
func (s Site) TagURL(tag string) string {
	return s.AbsoluteURL("/tags/" + url.PathEscape(strings.ToLower(strings.TrimSpace(tag))))
}
