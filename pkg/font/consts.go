package font

const (
	// ThemeFilePrefix marks a source locator relative to the theme directory.
	ThemeFilePrefix = "file:./"

	// DefaultFontStyle is the standard font style used when not specified
	DefaultFontStyle = "normal"

	// DefaultFontDisplay is the font-display value used in preview CSS
	DefaultFontDisplay = "swap"

	// DefaultPreviewText is shown for a family until the operator types
	// their own demo text.
	DefaultPreviewText = "The quick brown fox jumps over the lazy dog"
)

// formatsByExtension maps file extensions to CSS src format() hints.
var formatsByExtension = map[string]string{
	".woff2": "woff2",
	".woff":  "woff",
	".ttf":   "truetype",
	".otf":   "opentype",
	".eot":   "embedded-opentype",
	".svg":   "svg",
}
