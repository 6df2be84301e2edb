package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds the raw metadata values found at the top of a content
// file. Values keep their decoded types; the posts store applies defaults
// and coercion so a wrong type never rejects a file.
type FrontMatter struct {
	Title     any
	Date      any
	Updated   any
	Summary   any
	Tags      any
	Published any
	Raw       map[string]any
}

// Has reports whether key was present in the metadata block.
func (fm FrontMatter) Has(key string) bool {
	_, ok := fm.Raw[key]
	return ok
}

// ParseFrontMatter splits source into metadata and Markdown body. YAML (---),
// TOML (+++) and JSON (;;;) blocks are recognised; a file without a block
// yields empty metadata and the whole source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	raw := map[string]any{}

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	normalised := make(map[string]any, len(raw))
	for key, value := range raw {
		normalised[strings.ToLower(strings.TrimSpace(key))] = value
	}

	return FrontMatter{
		Title:     normalised["title"],
		Date:      normalised["date"],
		Updated:   normalised["updated"],
		Summary:   normalised["summary"],
		Tags:      normalised["tags"],
		Published: normalised["published"],
		Raw:       normalised,
	}, body, nil
}
