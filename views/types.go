package views

import (
	"time"

	"github.com/CLAYYO/VRASeniors/content"
)

// SiteConfig holds site-wide settings passed to every page so nothing is
// hardcoded in templates.
type SiteConfig struct {
	Name         string // SITE_NAME
	URL          string // SITE_URL
	Description  string // SITE_DESCRIPTION
	Email        string // committee contact address
	ContactEmail string // address shown on the access pages
	Nav          []NavLink
}

// NavLink is one entry of the primary navigation.
type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// PageMeta carries per-page SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical
}

// SectionPage is a section index: every item of the section in document order.
type SectionPage struct {
	Section content.Section
	Items   []content.ContentItem
}

// Upload is an uploaded file as listed on the dashboard.
type Upload struct {
	Filename     string
	OriginalName string
	Kind         string
	Size         int64
	UploadedAt   time.Time
}

// Publish is one publish attempt as listed on the dashboard.
type Publish struct {
	Message   string
	Hash      string
	Committed bool
	Error     string
	CreatedAt time.Time
}

// AdminItem is one editable item row of the dashboard. Index is the item's
// position in the editing session, which every admin form posts back.
type AdminItem struct {
	Index   int
	Item    content.ContentItem
	Section content.Section
	Dirty   bool
}

// Dashboard is everything the admin dashboard renders.
type Dashboard struct {
	Items      []AdminItem
	Sections   []content.Section
	Filter     string
	Message    string
	CSRF       string
	DirtyCount int
	Total      int
	Uploads    []Upload
	Publishes  []Publish
	ExpiresAt  time.Time
}
