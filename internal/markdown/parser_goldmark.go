package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultHighlightStyle is the chroma style applied when none is configured.
const DefaultHighlightStyle = "github"

// DefaultRenderOptions returns the pipeline used for trusted blog content:
// hard wraps on, raw HTML passed through, no sanitiser.
func DefaultRenderOptions() interfaces.RenderOptions {
	return interfaces.RenderOptions{
		HardWraps:      true,
		HighlightStyle: DefaultHighlightStyle,
	}
}

// GoldmarkRenderer implements interfaces.MarkdownRenderer. The goldmark
// engine is built once; heading ids are tracked per Render call so
// concurrent renders do not share collision state.
type GoldmarkRenderer struct {
	engine    goldmark.Markdown
	sanitizer *bluemonday.Policy
	logger    interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer builds the pipeline for opts. A nil logger disables logging.
func NewGoldmarkRenderer(opts interfaces.RenderOptions, logger interfaces.Logger) *GoldmarkRenderer {
	r := &GoldmarkRenderer{
		engine: newGoldmarkEngine(opts),
		logger: logging.OrNoOp(logger),
	}
	if opts.Sanitize {
		r.sanitizer = newSanitizer()
	}
	return r
}

// Render converts body into HTML. Panics raised by extensions on malformed
// input are reported as *RenderError together with the original body.
func (r *GoldmarkRenderer) Render(ctx context.Context, body []byte) (out []byte, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("render.panic", "recovered", fmt.Sprint(recovered))
			out = nil
			err = &RenderError{Source: body, Err: fmt.Errorf("panic: %v", recovered)}
		}
	}()

	pctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))

	var buf bytes.Buffer
	if convErr := r.engine.Convert(body, &buf, parser.WithContext(pctx)); convErr != nil {
		return nil, &RenderError{Source: body, Err: convErr}
	}

	if r.sanitizer != nil {
		return r.sanitizer.SanitizeBytes(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// newGoldmarkEngine wires the fixed extension order: tables, soft break
// handling, heading ids, then highlighting of fenced code.
func newGoldmarkEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	style := strings.TrimSpace(opts.HighlightStyle)
	if style == "" {
		style = DefaultHighlightStyle
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(opts.HighlightClasses),
					chromahtml.WithLineNumbers(opts.LineNumbers),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

func newSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").OnElements("pre", "code", "span", "div", "table")
	policy.AllowStyles("color", "background-color", "font-weight", "font-style", "text-decoration").
		OnElements("pre", "span")
	return policy
}
