package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section is one of the fixed top-level areas of the site.
type Section string

const (
	Golf           Section = "golf"
	Portfolio      Section = "portfolio"
	Administration Section = "administration"

	// None is reported for pages that belong to no section.
	None Section = "none"
)

// sectionPages is the allow-list of page keys per section. A page key
// appears under at most one section.
var sectionPages = []struct {
	section Section
	pages   []string
}{
	{Golf, []string{
		"weekly_competitions",
		"matches",
		"knockouts",
		"exchange_days",
		"rider_cup",
		"friendlies",
		"whs",
		"whs_conversion_tables",
	}},
	{Portfolio, []string{
		"introduction",
		"seniors_benefits",
		"operating_guidelines",
		"committee_structure",
		"inter_club_matches_portfolio",
		"seniors_competitions",
		"financial_operation",
		"seniors_invitation",
		"hall_of_fame",
	}},
	{Administration, []string{
		"vra_constitution",
		"document_tracker",
		"prize_structure",
		"annual_meeting_minutes",
		"photo_gallery",
	}},
}

// Sections returns the sections in navigation order.
func Sections() []Section {
	out := make([]Section, 0, len(sectionPages))
	for _, s := range sectionPages {
		out = append(out, s.section)
	}
	return out
}

// ParseSection maps a URL segment to a known section.
func ParseSection(s string) (Section, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sp := range sectionPages {
		if string(sp.section) == s {
			return sp.section, true
		}
	}
	return None, false
}

// SectionOf returns the section that lists page, or None.
func SectionOf(page string) Section {
	for _, sp := range sectionPages {
		for _, p := range sp.pages {
			if p == page {
				return sp.section
			}
		}
	}
	return None
}

// IsInSection reports whether page is on section's allow-list.
func IsInSection(page string, section Section) bool {
	for _, sp := range sectionPages {
		if sp.section != section {
			continue
		}
		for _, p := range sp.pages {
			if p == page {
				return true
			}
		}
	}
	return false
}

// PagesOf returns a copy of section's allow-list.
func PagesOf(section Section) []string {
	for _, sp := range sectionPages {
		if sp.section == section {
			return append([]string(nil), sp.pages...)
		}
	}
	return nil
}

// Label is the human-readable name of the section: its key with the first
// letter upper-cased.
func (s Section) Label() string {
	return capitalize(string(s))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
