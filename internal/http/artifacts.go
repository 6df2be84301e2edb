package http

import (
	"net/http"

	"github.com/goliatone/go-blog/internal/feeds"
)

func (api *API) handleRSS(w http.ResponseWriter, r *http.Request) {
	posts, err := api.index.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, feeds.ContentTypeRSS, []byte(feeds.RSS(api.site, posts, api.clock())))
}

func (api *API) handleAtom(w http.ResponseWriter, r *http.Request) {
	posts, err := api.index.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, feeds.ContentTypeAtom, []byte(feeds.Atom(api.site, posts, api.clock())))
}

func (api *API) handleSitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := api.index.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	tags, err := api.index.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, feeds.ContentTypeXML, []byte(feeds.Sitemap(api.site, posts, tags, api.clock())))
}

func (api *API) handleRobots(w http.ResponseWriter, _ *http.Request) {
	writeBody(w, feeds.ContentTypeText, []byte(feeds.Robots(api.site)))
}

func (api *API) handleManifest(w http.ResponseWriter, r *http.Request) {
	theme, err := parseManifestRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := feeds.Manifest(api.site, theme)
	if err != nil {
		writeError(w, err)
		return
	}
	writeBody(w, feeds.ContentTypeManifest, body)
}
