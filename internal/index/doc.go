// Package index caches the store's published collection and answers the
// query operations (all, by slug, by tag, tag summaries, search) from an
// immutable snapshot that is replaced atomically on reload.
package index
