package views

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"

	"github.com/CLAYYO/VRASeniors/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// PDFHref returns the public path of an uploaded PDF. Filenames that are
// already absolute or external are returned unchanged.
func PDFHref(filename string) string {
	if strings.HasPrefix(filename, "/") || strings.Contains(filename, "://") {
		return filename
	}
	return "/public/pdfs/" + url.PathEscape(filename)
}

// FormatSize renders a byte count the way the dashboard shows it.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// ShortHash trims a commit hash for display.
func ShortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// Body sanitises a stored item body for embedding.
func Body(s string) template.HTML {
	return template.HTML(content.PrepareHTML(s))
}

// WebsiteJsonLD produces a Schema.org SportsOrganization JSON-LD block.
func WebsiteJsonLD(cfg SiteConfig) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "SportsOrganization",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
		"sport":    "Golf",
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Email != "" {
		data["email"] = cfg.Email
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

func itemURL(cfg SiteConfig, it content.ContentItem) string {
	href := it.Href()
	if href == "" {
		return buildURL(cfg.URL)
	}
	return buildURL(cfg.URL, strings.Trim(href, "/"))
}
