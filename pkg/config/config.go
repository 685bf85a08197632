// Package config provides environment-driven paths for the font catalog tools.
package config

import (
	"os"
	"path/filepath"
)

// GetDataPath returns the data directory path.
// It checks for DATA_PATH environment variable, otherwise uses a default.
func GetDataPath() string {
	if path := os.Getenv("DATA_PATH"); path != "" {
		return path
	}

	// Default to current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Join(cwd, ".data")
}

// GetThemePath returns the theme directory holding theme.json.
// It checks for THEME_PATH environment variable, otherwise uses a default.
func GetThemePath() string {
	if path := os.Getenv("THEME_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "theme")
}

// GetThemeJSONPath returns the path of the theme.json document.
func GetThemeJSONPath() string {
	return filepath.Join(GetThemePath(), "theme.json")
}
