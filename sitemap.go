package vraseniors

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CLAYYO/VRASeniors/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapURLs lists the home page, the standalone pages, every section and
// every classified item.
func sitemapURLs(base string, repo *content.Repository) []sitemapURL {
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "hall-of-fame")},
		{Loc: BuildURL(base, "contact")},
	}
	for _, sec := range content.Sections() {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, string(sec))})
		for _, it := range repo.BySection(sec) {
			u := sitemapURL{Loc: BuildURL(base, it.Href())}
			if t, err := time.Parse("2006-01-02", it.Date); err == nil {
				u.LastMod = t.Format("2006-01-02")
			}
			urls = append(urls, u)
		}
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, repo *content.Repository) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  sitemapURLs(a.Config.URL, repo),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
