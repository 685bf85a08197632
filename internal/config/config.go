package config

import (
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Sync modes.
const (
	SyncDirect = "direct"
	SyncQueue  = "queue"
)

// Config holds the server configuration.
type Config struct {
	mcp.McpConf

	UI       UIConfig       `json:",optional"`
	API      APIConfig      `json:",optional"`
	Theme    ThemeConfig    `json:",optional"`
	Database DatabaseConfig `json:",optional"`
	Sync     SyncConfig     `json:",optional"`
	Delivery DeliveryConfig `json:",optional"`
	Sessions SessionsConfig `json:",optional"`
}

// UIConfig holds the Web UI server settings.
type UIConfig struct {
	rest.RestConf
}

// APIConfig holds the REST API server settings.
type APIConfig struct {
	rest.RestConf
}

// ThemeConfig describes the theme whose fonts are managed.
type ThemeConfig struct {
	Name     string `json:",default=default"`
	JSONPath string `json:",default=./theme/theme.json"`
	BaseURL  string `json:",optional"`
	NonceTTL string `json:",default=24h"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:",default=./.data/plat-fonts.db"`
}

// SyncConfig selects how confirmed catalogs reach the backing store.
type SyncConfig struct {
	Mode     string `json:",default=direct,options=direct|queue"`
	Endpoint string `json:",optional"`
	Queue    string `json:",default=submissions"`
	Timeout  string `json:",default=10s"`
}

// DeliveryConfig holds outbox delivery settings.
type DeliveryConfig struct {
	Workers      int    `json:",default=2"`
	MaxRetries   int    `json:",default=3"`
	RetryBackoff string `json:",default=30s"`
	MaxBackoff   string `json:",default=30m"`
	RateLimit    int    `json:",default=120"`
}

// SessionsConfig bounds live editing sessions.
type SessionsConfig struct {
	Capacity int `json:",default=256"`
}
