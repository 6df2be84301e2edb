package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// postSummary is the listing projection of a post; bodies are only served
// by the single post endpoints.
type postSummary struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	PublishedAt    time.Time  `json:"published_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Summary        string     `json:"summary"`
	Tags           []string   `json:"tags"`
	ReadingMinutes int        `json:"reading_minutes"`
}

type postListResponse struct {
	Posts []postSummary `json:"posts"`
	Total int           `json:"total"`
	Tag   string        `json:"tag,omitempty"`
}

type searchResponse struct {
	Query string        `json:"query"`
	Posts []postSummary `json:"posts"`
	Total int           `json:"total"`
}

type tagListResponse struct {
	Tags  []interfaces.TagSummary `json:"tags"`
	Total int                     `json:"total"`
}

type revalidateResponse struct {
	Revalidated bool      `json:"revalidated"`
	At          time.Time `json:"at"`
}

func summarize(list []*interfaces.Post) []postSummary {
	out := make([]postSummary, 0, len(list))
	for _, post := range list {
		tags := post.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, postSummary{
			Slug:           post.Slug,
			Title:          post.Title,
			PublishedAt:    post.PublishedAt,
			UpdatedAt:      post.UpdatedAt,
			Summary:        post.Summary,
			Tags:           tags,
			ReadingMinutes: post.ReadingMinutes,
		})
	}
	return out
}

func (api *API) handlePostList(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var list []*interfaces.Post
	if req.Tag != "" {
		list, err = api.index.ByTag(r.Context(), req.Tag)
	} else {
		list, err = api.index.All(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postListResponse{
		Posts: summarize(list),
		Total: len(list),
		Tag:   req.Tag,
	})
}

func (api *API) handlePostGet(w http.ResponseWriter, r *http.Request) {
	post, err := api.index.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	api.writePost(w, r, post)
}

func (api *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	post, err := api.index.Preview(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	api.writePost(w, r, post)
}

// writePost serves one post with its checksum as a strong ETag.
func (api *API) writePost(w http.ResponseWriter, r *http.Request, post *interfaces.Post) {
	if post.Checksum != "" {
		etag := `"` + post.Checksum + `"`
		w.Header().Set("ETag", etag)
		if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Last-Modified", post.LastModified().UTC().Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, post)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func (api *API) handleTagList(w http.ResponseWriter, r *http.Request) {
	tags, err := api.index.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tagListResponse{Tags: tags, Total: len(tags)})
}

func (api *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	list, err := api.index.Search(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query: req.Query,
		Posts: summarize(list),
		Total: len(list),
	})
}

func (api *API) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	if !api.authorizedRevalidate(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	api.index.Invalidate()
	api.logger.WithContext(r.Context()).Info("http.revalidated")
	writeJSON(w, http.StatusOK, revalidateResponse{Revalidated: true, At: api.clock().UTC()})
}

func (api *API) authorizedRevalidate(r *http.Request) bool {
	if api.revalidateSecret == "" {
		return true
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && api.secretMatches(strings.TrimSpace(bearer)) {
		return true
	}
	return api.secretMatches(r.URL.Query().Get("secret"))
}

func (api *API) secretMatches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(api.revalidateSecret)) == 1
}
