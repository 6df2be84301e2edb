// Package markdown implements the fixed Markdown pipeline used for posts:
// front matter extraction, goldmark rendering with tables, hard wraps,
// heading anchors and syntax highlighting, plus plain-text extraction for search.
package markdown
