package vraseniors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CLAYYO/VRASeniors/editor"
	"github.com/CLAYYO/VRASeniors/publish"
	"github.com/CLAYYO/VRASeniors/secrets"
	"github.com/CLAYYO/VRASeniors/views"
)

// Publish backends.
const (
	BackendGoGit = "go-git"
	BackendGit   = "git"
)

// SiteConfig holds all configuration for the seniors site.
type SiteConfig struct {
	Name         string // Site name
	URL          string // Canonical URL (default "http://localhost:3000")
	Description  string // Site description for the feed and meta tags
	Email        string // Committee address shown on the contact page
	ContactEmail string // Address shown on the access pages
	Nav          []views.NavLink

	Addr         string // Listen address (default ":3000")
	ContentPath  string // Content document (default "data/content.json")
	DatabasePath string // SQLite path (default "data/vraseniors.db")

	SiteUsername   string // Member Basic auth user (default "vra-member")
	SitePassword   string // Required
	AdminUsername  string // Admin Basic auth user (default "admin")
	AdminPassword  string // Required
	EditorPassword string // Editor login password (default AdminPassword)
	SessionSecret  string // Required: cookie and editor token key
	CookieSecure   bool   // Set true for HTTPS

	EditorTTL     time.Duration // Editing session lifetime (default 2h)
	SweepInterval time.Duration // Expired session sweep (default 10min)

	RepoDir        string // Working tree published by commit-push (default ".")
	PublishBackend string // "go-git" (default) or "git"
	GitRemote      string
	GitBranch      string
	GitUsername    string
	GitToken       string
	GitAuthorName  string
	GitAuthorEmail string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Vale Royal Abbey Golf Club - Seniors Section"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "Official website for the Vale Royal Abbey Golf Club Seniors Section"
	}
	if c.Email == "" {
		c.Email = "seniors@vragc.co.uk"
	}
	if c.ContactEmail == "" {
		c.ContactEmail = "vra.seniors@gmail.com"
	}
	if len(c.Nav) == 0 {
		c.Nav = []views.NavLink{
			{Label: "Home", Href: "/"},
			{Label: "Golf", Href: "/golf/"},
			{Label: "Portfolio", Href: "/portfolio/"},
			{Label: "Administration", Href: "/administration/"},
			{Label: "Hall of Fame", Href: "/hall-of-fame/"},
			{Label: "Contact", Href: "/contact/"},
		}
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentPath == "" {
		c.ContentPath = "data/content.json"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/vraseniors.db"
	}
	if c.SiteUsername == "" {
		c.SiteUsername = "vra-member"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.EditorPassword == "" {
		c.EditorPassword = c.AdminPassword
	}
	if c.EditorTTL == 0 {
		c.EditorTTL = editor.DefaultTTL
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 10 * time.Minute
	}
	if c.RepoDir == "" {
		c.RepoDir = "."
	}
	if c.PublishBackend == "" {
		c.PublishBackend = BackendGoGit
	}
}

func (c SiteConfig) validate() error {
	if c.SitePassword == "" {
		return errors.New("vraseniors: SitePassword is required")
	}
	if c.AdminPassword == "" {
		return errors.New("vraseniors: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return errors.New("vraseniors: SessionSecret is required")
	}
	switch c.PublishBackend {
	case BackendGoGit, BackendGit:
	default:
		return fmt.Errorf("vraseniors: unknown publish backend %q", c.PublishBackend)
	}
	return nil
}

// View returns the subset of the config that templates see.
func (c SiteConfig) View() views.SiteConfig {
	return views.SiteConfig{
		Name:         c.Name,
		URL:          c.URL,
		Description:  c.Description,
		Email:        c.Email,
		ContactEmail: c.ContactEmail,
		Nav:          c.Nav,
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

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger (default zap.NewNop).
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithPublisher overrides the publisher built from the git settings.
func WithPublisher(p publish.Publisher) Option {
	return func(a *App) {
		a.Publisher = p
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// siteFile is the optional YAML file holding the site's presentation settings.
type siteFile struct {
	Name         string          `yaml:"name"`
	URL          string          `yaml:"url"`
	Description  string          `yaml:"description"`
	Email        string          `yaml:"email"`
	ContactEmail string          `yaml:"contact_email"`
	Nav          []views.NavLink `yaml:"nav"`
}

// LoadConfig builds a SiteConfig from envFile (a .env file, skipped when
// missing), the process environment and siteFile (YAML, optional). Secret
// values are passed through resolver, so they may be env:// or gcpsm://
// references.
func LoadConfig(ctx context.Context, envFile, siteFilePath string, resolver *secrets.Resolver) (SiteConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := SiteConfig{
		Name:           os.Getenv("SITE_NAME"),
		URL:            os.Getenv("SITE_URL"),
		Description:    os.Getenv("SITE_DESCRIPTION"),
		Email:          os.Getenv("SITE_EMAIL"),
		ContactEmail:   os.Getenv("CONTACT_EMAIL"),
		Addr:           os.Getenv("ADDR"),
		ContentPath:    os.Getenv("CONTENT_PATH"),
		DatabasePath:   os.Getenv("DATABASE_PATH"),
		SiteUsername:   os.Getenv("SITE_USERNAME"),
		SitePassword:   os.Getenv("SITE_PASSWORD"),
		AdminUsername:  os.Getenv("ADMIN_USERNAME"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		EditorPassword: os.Getenv("EDITOR_PASSWORD"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		RepoDir:        os.Getenv("REPO_DIR"),
		PublishBackend: os.Getenv("PUBLISH_BACKEND"),
		GitRemote:      os.Getenv("GIT_REMOTE"),
		GitBranch:      os.Getenv("GIT_BRANCH"),
		GitUsername:    os.Getenv("GIT_USERNAME"),
		GitToken:       os.Getenv("GIT_TOKEN"),
		GitAuthorName:  os.Getenv("GIT_AUTHOR_NAME"),
		GitAuthorEmail: os.Getenv("GIT_AUTHOR_EMAIL"),
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}
	if v := os.Getenv("EDITOR_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("EDITOR_TTL: %w", err)
		}
		cfg.EditorTTL = ttl
	}

	if siteFilePath != "" {
		if err := cfg.mergeSiteFile(siteFilePath); err != nil {
			return SiteConfig{}, err
		}
	}

	if resolver != nil {
		if err := resolver.ResolveAll(ctx,
			&cfg.SitePassword,
			&cfg.AdminPassword,
			&cfg.EditorPassword,
			&cfg.SessionSecret,
			&cfg.GitToken,
		); err != nil {
			return SiteConfig{}, fmt.Errorf("resolve secrets: %w", err)
		}
	}
	return cfg, nil
}

// mergeSiteFile fills presentation settings the environment left empty.
func (c *SiteConfig) mergeSiteFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read site file: %w", err)
	}
	var f siteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse site file %s: %w", path, err)
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Name, f.Name)
	fill(&c.URL, f.URL)
	fill(&c.Description, f.Description)
	fill(&c.Email, f.Email)
	fill(&c.ContactEmail, f.ContactEmail)
	if len(c.Nav) == 0 {
		c.Nav = f.Nav
	}
	return nil
}
