// Package content loads the site's editorial records and answers the
// lookups the pages need: slugs, sections, search and recency.
package content

// ContentItem is one page's editorial record as stored in the content document.
type ContentItem struct {
	Page    string `json:"page"`
	Title   string `json:"title"`
	Content string `json:"content"`
	PDFs    []PDF  `json:"pdfs,omitempty"`
	Links   []Link `json:"links,omitempty"`
	Year    string `json:"year,omitempty"`
	Date    string `json:"date,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

// PDF is a document attached to an item.
type PDF struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Year     string `json:"year,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Link types.
const (
	LinkInternal = "internal"
	LinkPDF      = "pdf"
	LinkExternal = "external"
)

// Link is a navigation link attached to an item.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	Label string
	Href  string
}

// Href returns the public path of the item, or "" when its page is not
// classified into a section.
func (it ContentItem) Href() string {
	sec := SectionOf(it.Page)
	if sec == None {
		return ""
	}
	slug := it.Slug
	if slug == "" {
		slug = itemSlug(it)
	}
	return "/" + string(sec) + "/" + slug + "/"
}

// clone returns a deep copy so callers cannot mutate the repository's slices.
func (it ContentItem) clone() ContentItem {
	out := it
	if it.PDFs != nil {
		out.PDFs = append([]PDF(nil), it.PDFs...)
	}
	if it.Links != nil {
		out.Links = append([]Link(nil), it.Links...)
	}
	return out
}
