// Package vraseniors serves the members-only website of the Vale Royal Abbey
// Golf Club seniors section and its content editor.
//
// Pages are rendered through the ViewFuncs struct, so a deployment can
// replace any template while the package keeps the handler logic,
// middleware, access gate and storage.
package vraseniors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/CLAYYO/VRASeniors/content"
	"github.com/CLAYYO/VRASeniors/editor"
	"github.com/CLAYYO/VRASeniors/publish"
	"github.com/CLAYYO/VRASeniors/views"
)

// ViewFuncs holds the page components the handlers render. Nil fields are
// filled from DefaultViews.
type ViewFuncs struct {
	Home               func(site views.SiteConfig, home content.ContentItem, latest []content.ContentItem) templ.Component
	Section            func(site views.SiteConfig, sp views.SectionPage) templ.Component
	Item               func(site views.SiteConfig, it content.ContentItem, crumbs []content.Crumb) templ.Component
	Search             func(site views.SiteConfig, query string, results []content.ContentItem) templ.Component
	Contact            func(site views.SiteConfig) templ.Component
	AdminLogin         func(site views.SiteConfig, showError bool, csrfToken string) templ.Component
	AdminDashboard     func(site views.SiteConfig, d views.Dashboard) templ.Component
	MembersOnly        func(site views.SiteConfig) templ.Component
	InvalidCredentials func(site views.SiteConfig) templ.Component
	AdminRequired      func(site views.SiteConfig) templ.Component
	NotFound           func(site views.SiteConfig) templ.Component
	ServerError        func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:               views.Home,
		Section:            views.Section,
		Item:               views.Item,
		Search:             views.Search,
		Contact:            views.Contact,
		AdminLogin:         views.AdminLogin,
		AdminDashboard:     views.AdminDashboard,
		MembersOnly:        views.MembersOnly,
		InvalidCredentials: views.InvalidCredentials,
		AdminRequired:      views.AdminRequired,
		NotFound:           views.NotFound,
		ServerError:        views.ServerError,
	}
}

func (v *ViewFuncs) fillDefaults() {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Section == nil {
		v.Section = d.Section
	}
	if v.Item == nil {
		v.Item = d.Item
	}
	if v.Search == nil {
		v.Search = d.Search
	}
	if v.Contact == nil {
		v.Contact = d.Contact
	}
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.MembersOnly == nil {
		v.MembersOnly = d.MembersOnly
	}
	if v.InvalidCredentials == nil {
		v.InvalidCredentials = d.InvalidCredentials
	}
	if v.AdminRequired == nil {
		v.AdminRequired = d.AdminRequired
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}

// App is the central application. It wires together the content cache,
// editing sessions, publisher, store, handlers and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     *Store
	Content   *ContentCache
	Views     ViewFuncs
	Sessions  *editor.Registry
	Tokens    *editor.Tokens
	Publisher publish.Publisher
	Metrics   *Metrics

	logger       *zap.Logger
	loginLimiter *LoginLimiter
	scheduler    gocron.Scheduler
	cancel       context.CancelFunc
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.fillDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	return a
}

// Setup validates the configuration, opens the store, loads the content and
// registers middleware and routes. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("vraseniors: init store: %w", err)
	}
	a.Store = store

	cache, err := NewContentCache(a.Config.ContentPath, a.logger)
	if err != nil {
		return fmt.Errorf("vraseniors: load content: %w", err)
	}
	a.Content = cache

	a.Sessions = editor.NewRegistry(a.Config.EditorTTL)
	a.Tokens = editor.NewTokens([]byte(a.Config.SessionSecret), a.Config.EditorTTL).WithClock(a.now)

	if a.Publisher == nil {
		a.Publisher = NewPublisher(a.Config, a.logger)
	}

	a.Metrics = NewMetrics(
		func() float64 { return float64(a.Sessions.Len()) },
		func() float64 { return float64(a.Content.Repository().Len()) },
	)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// NewPublisher builds the publisher selected by cfg.PublishBackend.
func NewPublisher(cfg SiteConfig, logger *zap.Logger) publish.Publisher {
	if cfg.PublishBackend == BackendGit {
		return publish.NewCommandPublisher(publish.CommandConfig{
			Dir:         cfg.RepoDir,
			Remote:      cfg.GitRemote,
			Branch:      cfg.GitBranch,
			AuthorName:  cfg.GitAuthorName,
			AuthorEmail: cfg.GitAuthorEmail,
		}, logger)
	}
	return publish.NewGitPublisher(publish.GitConfig{
		Dir:         cfg.RepoDir,
		Remote:      cfg.GitRemote,
		Branch:      cfg.GitBranch,
		AuthorName:  cfg.GitAuthorName,
		AuthorEmail: cfg.GitAuthorEmail,
		Username:    cfg.GitUsername,
		Token:       cfg.GitToken,
	}, logger)
}

// Start runs Setup, starts the content watcher and session sweeper, and
// serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		if err := a.Content.Watch(ctx); err != nil {
			a.logger.Error("content watcher stopped", zap.Error(err))
		}
	}()
	if err := a.startSweeper(); err != nil {
		return err
	}

	a.logger.Info("listening", zap.String("addr", a.Config.Addr), zap.Int("items", a.Content.Repository().Len()))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/contact/", a.handleContact)
	e.GET("/hall-of-fame/", a.handleHallOfFame)
	e.GET("/search/", a.handleSearch)
	e.GET("/:section/", a.handleSection)
	e.GET("/:section/:slug/", a.handleItem)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.Metrics.Registry,
	}))

	ed := e.Group("/admin", a.requireEditor)
	ed.POST("/items/:index/", a.handleItemSave)
	ed.POST("/items/:index/reset/", a.handleItemReset)
	ed.POST("/items/:index/pdfs/", a.handlePDFAdd)
	ed.POST("/items/:index/pdfs/:pdf/delete/", a.handlePDFDelete)
	ed.POST("/reset/", a.handleResetAll)
	ed.GET("/export/", a.handleExport)
	ed.POST("/import/", a.handleImport)
	ed.POST("/api/upload-pdf/", a.handlePDFUpload)
	ed.POST("/api/upload-image/", a.handleImageUpload)
	ed.POST("/api/commit-push/", a.handleCommitPush)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.logger.Warn("stop scheduler", zap.Error(err))
		}
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
