package feeds

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Theme selects the manifest palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	defaultLight = Palette{ThemeColor: "#ffffff", BackgroundColor: "#ffffff"}
	defaultDark  = Palette{ThemeColor: "#111111", BackgroundColor: "#111111"}
)

// ParseTheme maps a query value onto a Theme. Blank input is light.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("feeds: unknown theme %q", value)
	}
}

// WebManifest is the web application manifest document.
type WebManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	StartURL        string `json:"start_url"`
	Scope           string `json:"scope"`
	Display         string `json:"display"`
	Lang            string `json:"lang,omitempty"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
}

// NewManifest builds the manifest for theme.
func NewManifest(site Site, theme Theme) WebManifest {
	palette := site.palette(theme)
	short := strings.TrimSpace(site.ShortName)
	if short == "" {
		short = site.title()
	}
	return WebManifest{
		Name:            site.title(),
		ShortName:       short,
		Description:     strings.TrimSpace(site.Description),
		StartURL:        "/",
		Scope:           "/",
		Display:         "standalone",
		Lang:            strings.TrimSpace(site.Language),
		ThemeColor:      palette.ThemeColor,
		BackgroundColor: palette.BackgroundColor,
	}
}

// Manifest renders the manifest for theme as indented JSON.
func Manifest(site Site, theme Theme) ([]byte, error) {
	data, err := json.MarshalIndent(NewManifest(site, theme), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("feeds: encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

func (s Site) palette(theme Theme) Palette {
	palette, fallback := s.Light, defaultLight
	if theme == ThemeDark {
		palette, fallback = s.Dark, defaultDark
	}
	if strings.TrimSpace(palette.ThemeColor) == "" {
		palette.ThemeColor = fallback.ThemeColor
	}
	if strings.TrimSpace(palette.BackgroundColor) == "" {
		palette.BackgroundColor = fallback.BackgroundColor
	}
	return palette
}
