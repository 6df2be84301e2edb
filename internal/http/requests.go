package http

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/internal/feeds"
)

const (
	maxQueryLength = 256
	maxTagLength   = 100
)

type listRequest struct {
	Tag string `json:"tag"`
}

func parseListRequest(r *http.Request) (listRequest, error) {
	req := listRequest{Tag: strings.TrimSpace(r.URL.Query().Get("tag"))}
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Tag, validation.RuneLength(0, maxTagLength)),
	)
	return req, err
}

type searchRequest struct {
	Query string `json:"q"`
}

func parseSearchRequest(r *http.Request) (searchRequest, error) {
	req := searchRequest{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Query, validation.RuneLength(0, maxQueryLength)),
	)
	return req, err
}

type manifestRequest struct {
	Theme string `json:"theme"`
}

func parseManifestRequest(r *http.Request) (feeds.Theme, error) {
	req := manifestRequest{Theme: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("theme")))}
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Theme, validation.In(string(feeds.ThemeLight), string(feeds.ThemeDark))),
	)
	if err != nil {
		return "", err
	}
	return feeds.ParseTheme(req.Theme)
}
