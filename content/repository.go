package content

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// HomePage is the page key of the landing item.
const HomePage = "home"

// Repository answers lookups over one loaded list of items. It is built
// once and never mutated, so it is safe for concurrent use.
type Repository struct {
	items []ContentItem
}

// NewRepository copies items and fills in missing slugs.
func NewRepository(items []ContentItem) *Repository {
	r := &Repository{items: make([]ContentItem, 0, len(items))}
	for _, it := range items {
		it = it.clone()
		it.Slug = itemSlug(it)
		r.items = append(r.items, it)
	}
	return r
}

// Len returns the number of items.
func (r *Repository) Len() int {
	return len(r.items)
}

// All returns every item with its slug populated.
func (r *Repository) All() []ContentItem {
	out := make([]ContentItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.clone())
	}
	return out
}

// Pages returns the page keys in document order.
func (r *Repository) Pages() []string {
	out := make([]string, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.Page)
	}
	return out
}

// ByPage returns the first item with the given page key.
func (r *Repository) ByPage(page string) (ContentItem, bool) {
	for _, it := range r.items {
		if it.Page == page {
			return it.clone(), true
		}
	}
	return ContentItem{}, false
}

// BySlug returns the item with the given slug whose page belongs to section.
func (r *Repository) BySlug(section Section, slug string) (ContentItem, bool) {
	for _, it := range r.items {
		if it.Slug == slug && IsInSection(it.Page, section) {
			return it.clone(), true
		}
	}
	return ContentItem{}, false
}

// BySection returns the items of section in document order.
func (r *Repository) BySection(section Section) []ContentItem {
	var out []ContentItem
	for _, it := range r.items {
		if IsInSection(it.Page, section) {
			out = append(out, it.clone())
		}
	}
	return out
}

// Search returns the items whose title, body or PDF names contain query,
// ignoring case. A blank query matches nothing; otherwise the query is
// matched as typed, surrounding spaces included.
func (r *Repository) Search(query string) []ContentItem {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	fold := cases.Fold()
	q := fold.String(query)
	var out []ContentItem
	for _, it := range r.items {
		if strings.Contains(fold.String(searchText(it)), q) {
			out = append(out, it.clone())
		}
	}
	return out
}

func searchText(it ContentItem) string {
	parts := make([]string, 0, 2+len(it.PDFs))
	parts = append(parts, it.Title, it.Content)
	for _, p := range it.PDFs {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, " ")
}

// Latest returns up to limit dated items, newest year first. The home item
// and items without a discoverable year are left out; items sharing a year
// keep their document order. Each returned item has Year set to the year
// that was found.
func (r *Repository) Latest(limit int) []ContentItem {
	if limit <= 0 {
		return nil
	}
	type dated struct {
		item ContentItem
		year int
	}
	var all []dated
	for _, it := range r.items {
		if it.Page == HomePage {
			continue
		}
		y, ok := ExtractYear(it)
		if !ok {
			continue
		}
		c := it.clone()
		c.Year = strconv.Itoa(y)
		all = append(all, dated{item: c, year: y})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].year > all[j].year
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]ContentItem, 0, len(all))
	for _, d := range all {
		out = append(out, d.item)
	}
	return out
}

// Breadcrumbs builds the navigation trail for a page. section may be a
// section key or one of the standalone pages "contact" and "hall-of-fame".
func Breadcrumbs(section, title string) []Crumb {
	crumbs := []Crumb{{Label: "Home", Href: "/"}}
	switch section {
	case "contact":
		return append(crumbs, Crumb{Label: "Contact Us", Href: "/contact"})
	case "hall-of-fame":
		return append(crumbs, Crumb{Label: "Hall of Fame", Href: "/hall-of-fame"})
	case "":
		return crumbs
	}
	crumbs = append(crumbs, Crumb{Label: capitalize(section), Href: "/" + section})
	if title != "" {
		crumbs = append(crumbs, Crumb{Label: title, Href: "/" + section + "/" + Slug(title)})
	}
	return crumbs
}
