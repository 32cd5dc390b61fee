package spacetraveling

import (
	"time"

	"github.com/eringen/spacetraveling/prismic"
)

// SiteConfig holds all configuration for a spacetraveling site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "spacetraveling")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Fallback author for JSON-LD
	Locale      string `mapstructure:"locale"`      // BCP 47 tag for dates and messages (default "pt-BR")

	Addr string `mapstructure:"addr"` // Listen address (default ":3000")

	APIEndpoint    string        `mapstructure:"api_endpoint"`    // Content API root, e.g. https://repo.cdn.prismic.io/api/v2
	AccessToken    string        `mapstructure:"access_token"`    // Optional content API token
	DocumentType   string        `mapstructure:"document_type"`   // Custom type of posts (default "posts")
	PageSize       int           `mapstructure:"page_size"`       // Posts per listing page (default 2)
	Orderings      string        `mapstructure:"orderings"`       // Listing order (default last publication date, newest first)
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Content API timeout (default 10s)
	RetryAfter     int           `mapstructure:"retry_after"`     // Seconds advertised while content is unavailable (default 5)

	SessionSecret string `mapstructure:"session_secret"` // Required: preview session encryption secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	PreviewRateLimit int `mapstructure:"preview_rate_limit"` // Preview entries per IP per minute (default 10)

	OutputDir       string `mapstructure:"output_dir"`       // Static build directory (default "dist")
	PrerenderLimit  int    `mapstructure:"prerender_limit"`  // Posts pre-rendered by build; 0 means all
	OptimizeBanners bool   `mapstructure:"optimize_banners"` // Resize and re-host banners on build
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "spacetraveling"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "pt-BR"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DocumentType == "" {
		c.DocumentType = "posts"
	}
	if c.PageSize <= 0 {
		c.PageSize = 2
	}
	if c.Orderings == "" {
		c.Orderings = prismic.DefaultOrdering
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.RetryAfter <= 0 {
		c.RetryAfter = 5
	}
	if c.PreviewRateLimit <= 0 {
		c.PreviewRateLimit = 10
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentClient supplies the content source instead of building a
// prismic client from APIEndpoint.
func WithContentClient(src ContentSource) Option {
	return func(a *App) {
		a.Content = src
	}
}
