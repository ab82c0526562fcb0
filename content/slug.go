package content

import (
	"regexp"
	"strings"
)

// Whitespace here is Unicode whitespace, so a non-breaking space separates
// words like an ordinary one.
var (
	reNonWord    = regexp.MustCompile(`[^a-z0-9_\s\p{Z}\x{FEFF}-]`)
	reSeparators = regexp.MustCompile(`[\s\p{Z}\x{FEFF}_]+`)
	reHyphens    = regexp.MustCompile(`-{2,}`)
)

// Slug converts a title to a URL-safe slug. Anything that is not an ASCII
// letter, digit, whitespace or hyphen is dropped, so accented letters
// disappear rather than fold. Whitespace and underscores become single
// hyphens.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = reNonWord.ReplaceAllString(s, "")
	s = reSeparators.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// itemSlug returns the explicit slug of it, or one derived from the title.
// Titles that reduce to nothing fall back to the page key.
func itemSlug(it ContentItem) string {
	if it.Slug != "" {
		return it.Slug
	}
	if s := Slug(it.Title); s != "" {
		return s
	}
	if s := Slug(it.Page); s != "" {
		return s
	}
	return "item"
}
