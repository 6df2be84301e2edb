// Package posts is the filesystem-backed post store. It discovers content
// files, parses their front matter, renders bodies through the markdown
// pipeline and assembles immutable interfaces.Post records.
package posts
