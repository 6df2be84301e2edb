package di

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/feeds"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/index"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Container wires the render pipeline, the post store, the index and the
// HTTP surface from a single Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	clock          func() time.Time

	renderer interfaces.MarkdownRenderer
	store    interfaces.PostStore
	index    *index.Index
	api      *bloghttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRenderer overrides the goldmark pipeline.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithContentFS reads posts from fsys instead of Config.Content.Dir.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithStore replaces the filesystem store entirely.
func WithStore(store interfaces.PostStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithClock overrides the clock shared by the store, the index and the API.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer validates cfg and builds every component.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.clock == nil {
		c.clock = time.Now
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}

	if c.renderer == nil {
		c.renderer = markdown.NewGoldmarkRenderer(c.Config.Render, logging.RenderLogger(c.loggerProvider))
	}

	if c.store == nil {
		fsys := c.contentFS
		if fsys == nil {
			fsys = os.DirFS(strings.TrimSpace(c.Config.Content.Dir))
		}
		c.store = posts.NewStore(fsys, c.renderer, posts.Config{
			Extensions:     c.Config.Content.Extensions,
			Recursive:      c.Config.Content.Recursive,
			WordsPerMinute: c.Config.Content.WordsPerMinute,
			Workers:        c.Config.Content.Workers,
		},
			posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
			posts.WithClock(c.clock),
		)
	}

	c.index = index.New(c.store, index.Config{
		Revalidate:     c.Config.Cache.Revalidate,
		PreviewEnabled: c.Config.Preview.Enabled,
	},
		index.WithLogger(logging.IndexLogger(c.loggerProvider)),
		index.WithClock(c.clock),
	)

	c.api = bloghttp.NewAPI(c.index, c.Site(),
		bloghttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		bloghttp.WithClock(c.clock),
		bloghttp.WithRevalidateSecret(c.Config.Cache.RevalidateSecret),
	)

	logging.ModuleLogger(c.loggerProvider, "").Debug("container.configured",
		"content_dir", c.Config.Content.Dir,
		"recursive", c.Config.Content.Recursive,
		"preview", c.Config.Preview.Enabled,
		"revalidate", c.Config.Cache.Revalidate.String(),
		"logging_provider", c.Config.Logging.Provider,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure go-logger provider: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Renderer returns the Markdown pipeline.
func (c *Container) Renderer() interfaces.MarkdownRenderer {
	return c.renderer
}

// Store returns the post store.
func (c *Container) Store() interfaces.PostStore {
	return c.store
}

// Index returns the cached query surface.
func (c *Container) Index() *index.Index {
	return c.index
}

// API returns the HTTP surface.
func (c *Container) API() *bloghttp.API {
	return c.api
}

// Clock returns the shared clock.
func (c *Container) Clock() func() time.Time {
	return c.clock
}

// Site projects the site configuration for feeds and the manifest.
func (c *Container) Site() feeds.Site {
	site := c.Config.Site
	return feeds.Site{
		BaseURL:     site.BaseURL,
		Title:       site.Title,
		ShortName:   site.ShortName,
		Description: site.Description,
		Author:      site.Author,
		Language:    site.Language,
		FeedLimit:   site.FeedLimit,
		Light:       feeds.Palette(site.Theme.Light),
		Dark:        feeds.Palette(site.Theme.Dark),
	}
}
