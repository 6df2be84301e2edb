package markdown

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// PlainText strips every tag from rendered HTML and returns the visible text
// with whitespace collapsed. Used to build search text.
func PlainText(rendered string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
		stripPolicy.AddSpaceWhenStrippingTag(true)
	})
	text := html.UnescapeString(stripPolicy.Sanitize(rendered))
	return strings.Join(strings.Fields(text), " ")
}
