// Package feeds projects the published collection into the artifacts a blog
// serves next to its pages: RSS 2.0, Atom 1.0, sitemap.xml, robots.txt and
// the web application manifest.
package feeds
