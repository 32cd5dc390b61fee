// Package spacetraveling is a blog front-end built with Go, Echo, and templ.
// It reads posts from a Prismic-style content API and serves a paged listing
// with "load more" continuation, post pages with reading time and
// previous/next navigation, preview mode, RSS and a sitemap. The same App can
// pre-render the whole site to static files with Generate.
//
// Templates are supplied through the ViewFuncs struct; DefaultViews returns
// the stock ones from the views package.
package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/views"
)

// ViewFuncs holds the templ components the App calls when rendering pages.
// Nil entries fall back to DefaultViews.
type ViewFuncs struct {
	Home        func(l views.Listing) templ.Component
	PostList    func(l views.Listing) templ.Component
	Post        func(v views.PostView) templ.Component
	NotFound    func(site views.Site) templ.Component
	Loading     func(site views.Site, retryAfter int) templ.Component
	ServerError func(site views.Site) templ.Component
}

// DefaultViews returns the stock templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		PostList:    views.PostItems,
		Post:        views.Post,
		NotFound:    views.NotFound,
		Loading:     views.Loading,
		ServerError: views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.PostList == nil {
		v.PostList = d.PostList
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.Loading == nil {
		v.Loading = d.Loading
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// App is the central spacetraveling application. It wires together the
// content source, handlers, middleware, and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content ContentSource
	Views   ViewFuncs

	previewLimiter *RateLimiter
	customRoutes   []func(*App)
	staticDir      string

	setupOnce sync.Once
	setupErr  error
	stop      context.CancelFunc
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v.withDefaults(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration and installs middleware and routes. It
// runs once; Start calls it, and tests may call it before using Echo directly.
func (a *App) Setup() error {
	a.setupOnce.Do(func() {
		a.setupErr = a.setup()
	})
	return a.setupErr
}

func (a *App) setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("spacetraveling: SessionSecret is required")
	}
	if err := a.ensureContent(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	a.previewLimiter = NewRateLimiter(ctx, a.Config.PreviewRateLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// ensureContent builds the prismic client from the configuration unless a
// content source was supplied.
func (a *App) ensureContent() error {
	if a.Content != nil {
		return nil
	}
	if a.Config.APIEndpoint == "" {
		return fmt.Errorf("spacetraveling: APIEndpoint is required")
	}
	client, err := prismic.New(a.Config.APIEndpoint, a.Config.AccessToken,
		prismic.WithTimeout(a.Config.RequestTimeout))
	if err != nil {
		return fmt.Errorf("spacetraveling: content client: %w", err)
	}
	a.Content = client
	return nil
}

// Start sets the App up and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving %s on %s", a.Config.Name, a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx is done.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets take precedence; anything else under /public/ comes
	// from the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	for _, name := range embeddedAssetNames() {
		e.GET("/public/"+name, embeddedHandler)
	}
	e.Static("/public", a.staticDir)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/page/:n/", a.handlePage)
	e.GET("/page/:n/posts.html", a.handleFragment)
	e.GET("/post/:uid/", a.handlePost)

	e.GET("/api/preview", a.handlePreview)
	e.GET("/api/exit-preview", a.handleExitPreview)
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
	}
	return nil
}
