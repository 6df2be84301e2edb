package interfaces

import "context"

// MarkdownRenderer converts a Markdown body into HTML. Implementations must be
// safe for concurrent use; the posts store renders files from request goroutines.
type MarkdownRenderer interface {
	Render(ctx context.Context, body []byte) ([]byte, error)
}

// RenderOptions configures the fixed Markdown pipeline. Field names stay
// readable for YAML unmarshalling and CLI flags.
type RenderOptions struct {
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool `yaml:"hard_wraps" json:"hard_wraps"`
	// SafeMode drops raw HTML found in the body instead of passing it through.
	SafeMode bool `yaml:"safe_mode" json:"safe_mode"`
	// Sanitize scrubs the rendered HTML with a UGC policy. Required for untrusted input.
	Sanitize bool `yaml:"sanitize" json:"sanitize"`
	// HighlightStyle names the chroma style used for fenced code blocks.
	HighlightStyle string `yaml:"highlight_style" json:"highlight_style"`
	// HighlightClasses emits CSS classes instead of inline styles.
	HighlightClasses bool `yaml:"highlight_classes" json:"highlight_classes"`
	// LineNumbers adds line numbers to highlighted code blocks.
	LineNumbers bool `yaml:"line_numbers" json:"line_numbers"`
}
