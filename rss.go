package vraseniors

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CLAYYO/VRASeniors/content"
)

const (
	feedItems      = 20
	feedExcerptLen = 280
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// renderRSS writes the feed of the given items, newest first as given.
func (a *App) renderRSS(c echo.Context, items []content.ContentItem) error {
	base := a.Config.URL
	out := make([]rssItem, 0, len(items))
	for _, it := range items {
		href := it.Href()
		if href == "" {
			continue
		}
		link := BuildURL(base, href)
		pubDate := ""
		if t, err := time.Parse("2006-01-02", it.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		out = append(out, rssItem{
			Title:       it.Title,
			Link:        link,
			Description: Excerpt(it.Content, feedExcerptLen),
			Category:    content.SectionOf(it.Page).Label(),
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Items:       out,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
