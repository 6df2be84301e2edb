// Package http exposes the blog query surface over chi.
//
// Routes:
//   - Posts: GET /api/posts[?tag=], GET /api/posts/{slug}
//   - Tags: GET /api/tags
//   - Search: GET /api/search?q=
//   - Preview: GET /api/preview/{slug}
//   - Cache: POST /api/revalidate
//   - Artifacts: GET /feed.xml, /atom.xml, /sitemap.xml, /robots.txt,
//     /manifest.json[?theme=light|dark]
//
// Host applications can mount the routes on their own router through
// RegisterHTTP or serve Handler directly.
package http
