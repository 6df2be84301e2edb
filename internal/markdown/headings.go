package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

const fallbackHeadingID = "heading"

// headingIDs assigns heading anchors for a single document. The first
// occurrence of a slug is used as is; later collisions get -1, -2, ...
type headingIDs struct {
	used map[string]struct{}
}

var _ parser.IDs = (*headingIDs)(nil)

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: map[string]struct{}{}}
}

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := headingSlug(string(value))
	candidate := base
	for i := 1; ; i++ {
		if _, taken := h.used[candidate]; !taken {
			break
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	h.used[candidate] = struct{}{}
	return []byte(candidate)
}

// Put records an explicit id (`## Title {#custom}`) so generated ids avoid it.
func (h *headingIDs) Put(value []byte) {
	h.used[string(value)] = struct{}{}
}

func headingSlug(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackHeadingID
	}
	normalized, err := slug.Normalize(text)
	if err != nil {
		return fallbackHeadingID
	}
	normalized = strings.ToLower(strings.Trim(normalized, "-"))
	if normalized == "" {
		return fallbackHeadingID
	}
	return normalized
}
