package runtimeconfig

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

var ErrContentDirRequired = errors.New("blog config: content directory is required")
var ErrContentExtensionInvalid = errors.New("blog config: content extension is invalid")
var ErrWordsPerMinuteInvalid = errors.New("blog config: words per minute must be zero or positive")
var ErrWorkersInvalid = errors.New("blog config: workers must be zero or positive")
var ErrCacheRevalidateInvalid = errors.New("blog config: cache revalidate window must be zero or positive")
var ErrFeedLimitInvalid = errors.New("blog config: feed limit must be zero or positive")
var ErrSiteBaseURLInvalid = errors.New("blog config: site base url must be an absolute http(s) url")
var ErrThemeColorInvalid = errors.New("blog config: theme colour must be a hex colour")
var ErrHTTPAddrRequired = errors.New("blog config: http address is required")
var ErrBuildOutputDirRequired = errors.New("blog config: build output directory is required")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Config aggregates every runtime setting of the blog service.
type Config struct {
	Content ContentConfig            `yaml:"content"`
	Render  interfaces.RenderOptions `yaml:"render"`
	Cache   CacheConfig              `yaml:"cache"`
	Preview PreviewConfig            `yaml:"preview"`
	Site    SiteConfig               `yaml:"site"`
	HTTP    HTTPConfig               `yaml:"http"`
	Build   BuildConfig              `yaml:"build"`
	Logging LoggingConfig            `yaml:"logging"`
}

// ContentConfig locates the post files.
type ContentConfig struct {
	Dir            string   `yaml:"dir"`
	Extensions     []string `yaml:"extensions"`
	Recursive      bool     `yaml:"recursive"`
	WordsPerMinute int      `yaml:"words_per_minute"`
	Workers        int      `yaml:"workers"`
}

// CacheConfig controls the index lifetime.
type CacheConfig struct {
	// Revalidate rebuilds the index when it is older than this window. Zero
	// keeps it until an explicit revalidation.
	Revalidate       time.Duration `yaml:"revalidate"`
	RevalidateSecret string        `yaml:"revalidate_secret"`
	WarmOnStart      bool          `yaml:"warm_on_start"`
}

// PreviewConfig gates access to unpublished posts.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SiteConfig describes the published site for feeds and the manifest.
type SiteConfig struct {
	BaseURL     string      `yaml:"base_url"`
	Title       string      `yaml:"title"`
	ShortName   string      `yaml:"short_name"`
	Description string      `yaml:"description"`
	Author      string      `yaml:"author"`
	Language    string      `yaml:"language"`
	FeedLimit   int         `yaml:"feed_limit"`
	Theme       ThemeConfig `yaml:"theme"`
}

// ThemeConfig holds the light and dark manifest palettes.
type ThemeConfig struct {
	Light PaletteConfig `yaml:"light"`
	Dark  PaletteConfig `yaml:"dark"`
}

// PaletteConfig is one colour scheme.
type PaletteConfig struct {
	ThemeColor      string `yaml:"theme_color"`
	BackgroundColor string `yaml:"background_color"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BuildConfig configures the build command.
type BuildConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:        "posts",
			Extensions: []string{".mdx", ".md"},
		},
		Render: interfaces.RenderOptions{
			HardWraps:      true,
			HighlightStyle: "github",
		},
		Cache:   CacheConfig{WarmOnStart: true},
		Preview: PreviewConfig{},
		Site: SiteConfig{
			BaseURL:   "http://localhost:8080",
			Title:     "Blog",
			Language:  "en",
			FeedLimit: 20,
			Theme: ThemeConfig{
				Light: PaletteConfig{ThemeColor: "#ffffff", BackgroundColor: "#ffffff"},
				Dark:  PaletteConfig{ThemeColor: "#111111", BackgroundColor: "#111111"},
			},
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Build: BuildConfig{
			OutputDir: "public",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Load overlays the YAML document in r onto DefaultConfig. Keys missing from
// the document keep their defaults.
func Load(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("blog config: decode: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML config file. A blank path returns DefaultConfig.
func LoadFile(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultConfig(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("blog config: open %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Environment variables read by ApplyEnv.
const (
	EnvContentDir       = "BLOG_CONTENT_DIR"
	EnvBaseURL          = "BLOG_BASE_URL"
	EnvHTTPAddr         = "BLOG_HTTP_ADDR"
	EnvLogLevel         = "BLOG_LOG_LEVEL"
	EnvLogProvider      = "BLOG_LOG_PROVIDER"
	EnvPreviewEnabled   = "BLOG_PREVIEW_ENABLED"
	EnvRevalidate       = "BLOG_CACHE_REVALIDATE"
	EnvRevalidateSecret = "BLOG_REVALIDATE_SECRET"
)

// ApplyEnv overrides fields from environment values returned by lookup.
// Unparseable booleans and durations are reported instead of ignored.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, target *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	str(EnvContentDir, &cfg.Content.Dir)
	str(EnvBaseURL, &cfg.Site.BaseURL)
	str(EnvHTTPAddr, &cfg.HTTP.Addr)
	str(EnvLogLevel, &cfg.Logging.Level)
	str(EnvLogProvider, &cfg.Logging.Provider)
	str(EnvRevalidateSecret, &cfg.Cache.RevalidateSecret)

	if value, ok := lookup(EnvPreviewEnabled); ok && strings.TrimSpace(value) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("blog config: %s: %w", EnvPreviewEnabled, err)
		}
		cfg.Preview.Enabled = enabled
	}
	if value, ok := lookup(EnvRevalidate); ok && strings.TrimSpace(value) != "" {
		window, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("blog config: %s: %w", EnvRevalidate, err)
		}
		cfg.Cache.Revalidate = window
	}
	return nil
}

var hexColour = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	for _, ext := range cfg.Content.Extensions {
		trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if trimmed == "" || strings.ContainsAny(trimmed, `./\ `) {
			return fmt.Errorf("%w: %q", ErrContentExtensionInvalid, ext)
		}
	}
	if cfg.Content.WordsPerMinute < 0 {
		return ErrWordsPerMinuteInvalid
	}
	if cfg.Content.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.Cache.Revalidate < 0 {
		return ErrCacheRevalidateInvalid
	}
	if cfg.Site.FeedLimit < 0 {
		return ErrFeedLimitInvalid
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	for _, colour := range []string{
		cfg.Site.Theme.Light.ThemeColor,
		cfg.Site.Theme.Light.BackgroundColor,
		cfg.Site.Theme.Dark.ThemeColor,
		cfg.Site.Theme.Dark.BackgroundColor,
	} {
		if colour = strings.TrimSpace(colour); colour != "" && !hexColour.MatchString(colour) {
			return fmt.Errorf("%w: %s", ErrThemeColorInvalid, colour)
		}
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ValidateServe adds the checks only the serve command needs.
func (cfg Config) ValidateServe() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	return nil
}

// ValidateBuild adds the checks only the build command needs.
func (cfg Config) ValidateBuild() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Build.OutputDir) == "" {
		return ErrBuildOutputDirRequired
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
