package posts

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// CategoryRead marks content files that could not be read.
	CategoryRead goerrors.Category = "post_read"
	// CategoryMetadata marks front matter blocks that could not be decoded.
	CategoryMetadata goerrors.Category = "post_metadata"
	// CategoryRender marks bodies the markdown pipeline rejected.
	CategoryRender goerrors.Category = "post_render"
)

const (
	textCodeReadFailed        = "POST_READ_FAILED"
	textCodeMetadataMalformed = "POST_METADATA_UNREADABLE"
	textCodeRenderFailed      = "POST_RENDER_FAILED"
)

func wrapReadError(err error, path string) error {
	return goerrors.Wrap(err, CategoryRead, "read post "+path).
		WithTextCode(textCodeReadFailed)
}

func wrapMetadataError(err error, path string) error {
	return goerrors.Wrap(err, CategoryMetadata, "parse front matter "+path).
		WithTextCode(textCodeMetadataMalformed)
}

func wrapRenderError(err error, path string) error {
	return goerrors.Wrap(err, CategoryRender, "render post "+path).
		WithTextCode(textCodeRenderFailed)
}
