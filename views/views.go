// Package views holds the site's page components. Each page is a
// templ.Component backed by an embedded html/template file that fills the
// "main" block of the shared layout.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/CLAYYO/VRASeniors/content"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"body":       Body,
	"pdfHref":    PDFHref,
	"pathEscape": PathEscape,
	"formatSize": FormatSize,
	"shortHash":  ShortHash,
	"jsonLD":     WebsiteJsonLD,
	"itemURL":    itemURL,
	"sections":   content.Sections,
	"lower":      strings.ToLower,
	"external":   func(l content.Link) bool { return l.Type == content.LinkExternal },
}

var pages = map[string]*template.Template{}

func init() {
	layout := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	for _, name := range []string{
		"home", "section", "item", "search", "contact",
		"not_found", "server_error", "admin_login", "admin_dashboard",
	} {
		t := template.Must(layout.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	pages["gate"] = template.Must(template.New("gate.html").Funcs(funcs).ParseFS(templateFS, "templates/gate.html"))
}

// page is the data every layout-based template receives.
type page struct {
	Site   SiteConfig
	Meta   PageMeta
	Crumbs []content.Crumb
	Data   any
}

func render(name, root string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return t.ExecuteTemplate(w, root, data)
	})
}

func layout(name string, p page) templ.Component {
	if p.Meta.Title == "" {
		p.Meta.Title = p.Site.Name
	} else {
		p.Meta.Title += " | " + p.Site.Name
	}
	if p.Meta.Description == "" {
		p.Meta.Description = p.Site.Description
	}
	return render(name, "layout", p)
}

// Home renders the landing page: the home item and the latest items.
func Home(site SiteConfig, home content.ContentItem, latest []content.ContentItem) templ.Component {
	return layout("home", page{
		Site: site,
		Meta: PageMeta{URL: buildURL(site.URL)},
		Data: struct {
			Home   content.ContentItem
			Latest []content.ContentItem
		}{home, latest},
	})
}

// Section renders a section index.
func Section(site SiteConfig, sp SectionPage) templ.Component {
	return layout("section", page{
		Site:   site,
		Meta:   PageMeta{Title: sp.Section.Label(), URL: buildURL(site.URL, string(sp.Section))},
		Crumbs: content.Breadcrumbs(string(sp.Section), ""),
		Data:   sp,
	})
}

// Item renders a single item with its documents and links.
func Item(site SiteConfig, it content.ContentItem, crumbs []content.Crumb) templ.Component {
	return layout("item", page{
		Site:   site,
		Meta:   PageMeta{Title: it.Title, URL: itemURL(site, it)},
		Crumbs: crumbs,
		Data:   it,
	})
}

// Search renders search results for query.
func Search(site SiteConfig, query string, results []content.ContentItem) templ.Component {
	return layout("search", page{
		Site: site,
		Meta: PageMeta{Title: "Search", URL: buildURL(site.URL, "search")},
		Data: struct {
			Query   string
			Results []content.ContentItem
		}{query, results},
	})
}

// Contact renders the contact page.
func Contact(site SiteConfig) templ.Component {
	return layout("contact", page{
		Site:   site,
		Meta:   PageMeta{Title: "Contact Us", URL: buildURL(site.URL, "contact")},
		Crumbs: content.Breadcrumbs("contact", ""),
	})
}

func NotFound(site SiteConfig) templ.Component {
	return layout("not_found", page{Site: site, Meta: PageMeta{Title: "Page not found"}})
}

func ServerError(site SiteConfig) templ.Component {
	return layout("server_error", page{Site: site, Meta: PageMeta{Title: "Server error"}})
}

// AdminLogin renders the editor password form.
func AdminLogin(site SiteConfig, showError bool, csrfToken string) templ.Component {
	return layout("admin_login", page{
		Site: site,
		Meta: PageMeta{Title: "Admin"},
		Data: struct {
			ShowError bool
			CSRF      string
		}{showError, csrfToken},
	})
}

// AdminDashboard renders the content editor.
func AdminDashboard(site SiteConfig, d Dashboard) templ.Component {
	return layout("admin_dashboard", page{Site: site, Meta: PageMeta{Title: "Content editor"}, Data: d})
}

// gate is the data of the standalone access pages.
type gate struct {
	Site    SiteConfig
	Title   string
	Heading string
	Message string
	Theme   string
}

// MembersOnly is shown when a request arrives without credentials.
func MembersOnly(site SiteConfig) templ.Component {
	return render("gate", "gate", gate{
		Site:    site,
		Title:   "Members Only Access",
		Heading: "Members Only Access",
		Message: "This website is restricted to members of the VRA Golf Club Seniors Section. Please enter the username and password provided by the committee.",
		Theme:   "members",
	})
}

// InvalidCredentials is shown when site credentials are wrong.
func InvalidCredentials(site SiteConfig) templ.Component {
	return render("gate", "gate", gate{
		Site:    site,
		Title:   "Invalid Credentials",
		Heading: "Invalid Credentials",
		Message: "The username or password you entered is incorrect. Please try again.",
		Theme:   "members",
	})
}

// AdminRequired is shown when an admin path is requested without the
// administrator credentials.
func AdminRequired(site SiteConfig) templ.Component {
	return render("gate", "gate", gate{
		Site:    site,
		Title:   "Administrator Login Required",
		Heading: "Administrator Login Required",
		Message: "This area is restricted to site administrators.",
		Theme:   "admin",
	})
}
