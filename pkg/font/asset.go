// Package font resolves theme font assets and renders preview CSS for them.
package font

import (
	"strings"

	"github.com/joeblew999/plat-fonts/pkg/log"
)

// ThemeAssets resolves theme-relative source locators against the URL the
// theme is served from.
type ThemeAssets struct {
	BaseURL string
}

// NewThemeAssets creates a resolver for a theme served at baseURL.
func NewThemeAssets(baseURL string) ThemeAssets {
	return ThemeAssets{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve rewrites a leading file:./ to the theme URL. Other locators,
// absolute URLs included, are returned unchanged.
func (a ThemeAssets) Resolve(src string) string {
	if src == "" || !strings.HasPrefix(src, ThemeFilePrefix) {
		return src
	}
	if a.BaseURL == "" {
		log.Debug("No theme URL configured, keeping relative source", "src", src)
		return strings.TrimPrefix(src, "file:")
	}
	return a.BaseURL + "/" + strings.TrimPrefix(src, ThemeFilePrefix)
}
