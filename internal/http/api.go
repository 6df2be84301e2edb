package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// API serves the post index and the derived artifacts.
type API struct {
	index            interfaces.PostIndex
	site             feeds.Site
	logger           interfaces.Logger
	clock            func() time.Time
	revalidateSecret string
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API over index.
func NewAPI(index interfaces.PostIndex, site feeds.Site, opts ...Option) *API {
	api := &API{
		index:  index,
		site:   site,
		logger: logging.NoOp(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithClock overrides the clock used for artifact timestamps.
func WithClock(clock func() time.Time) Option {
	return func(api *API) {
		if clock != nil {
			api.clock = clock
		}
	}
}

// WithRevalidateSecret requires callers of POST /api/revalidate to present
// secret as a bearer token or a "secret" query value. Blank leaves the
// endpoint open.
func WithRevalidateSecret(secret string) Option {
	return func(api *API) {
		api.revalidateSecret = strings.TrimSpace(secret)
	}
}

// RegisterHTTP mounts every route on r.
func (api *API) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", api.handlePostList)
		r.Get("/posts/{slug}", api.handlePostGet)
		r.Get("/tags", api.handleTagList)
		r.Get("/search", api.handleSearch)
		r.Get("/preview/{slug}", api.handlePreview)
		r.Post("/revalidate", api.handleRevalidate)
	})

	r.Get("/feed.xml", api.handleRSS)
	r.Get("/atom.xml", api.handleAtom)
	r.Get("/sitemap.xml", api.handleSitemap)
	r.Get("/robots.txt", api.handleRobots)
	r.Get("/manifest.json", api.handleManifest)
}

// Handler returns a router with the standard middleware stack and every
// route mounted.
func (api *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
	})

	api.RegisterHTTP(r)
	return r
}

// requestLogger logs one line per request with the chi request id attached
// to both the logger and the request context.
func (api *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := api.clock()
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": id})
			r = r.WithContext(ctx)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger := api.logger.WithContext(ctx)
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", api.clock().Sub(started).String(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http.request", fields...)
			return
		}
		logger.Info("http.request", fields...)
	})
}
