package markdown

import "fmt"

// RenderError reports a body that could not be converted to HTML. Source
// carries the original Markdown so callers can decide on a fallback.
type RenderError struct {
	Source []byte
	Err    error
}

func (e *RenderError) Error() string {
	if e == nil || e.Err == nil {
		return "markdown render failed"
	}
	return fmt.Sprintf("markdown render: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
