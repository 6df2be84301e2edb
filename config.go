package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrContentExtensionInvalid = runtimeconfig.ErrContentExtensionInvalid
	ErrWordsPerMinuteInvalid   = runtimeconfig.ErrWordsPerMinuteInvalid
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrCacheRevalidateInvalid  = runtimeconfig.ErrCacheRevalidateInvalid
	ErrFeedLimitInvalid        = runtimeconfig.ErrFeedLimitInvalid
	ErrSiteBaseURLInvalid      = runtimeconfig.ErrSiteBaseURLInvalid
	ErrThemeColorInvalid       = runtimeconfig.ErrThemeColorInvalid
	ErrHTTPAddrRequired        = runtimeconfig.ErrHTTPAddrRequired
	ErrBuildOutputDirRequired  = runtimeconfig.ErrBuildOutputDirRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	ContentConfig = runtimeconfig.ContentConfig
	CacheConfig   = runtimeconfig.CacheConfig
	PreviewConfig = runtimeconfig.PreviewConfig
	SiteConfig    = runtimeconfig.SiteConfig
	ThemeConfig   = runtimeconfig.ThemeConfig
	PaletteConfig = runtimeconfig.PaletteConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	BuildConfig   = runtimeconfig.BuildConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
