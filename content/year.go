package content

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reLeadingInt = regexp.MustCompile(`^\s*[+-]?\d+`)
	reYearToken  = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

// dateLayouts are the date spellings found in the content document.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// ExtractYear finds the best-effort year of an item: the explicit year
// field, then the date field, then the first year-like token in the title
// and body.
func ExtractYear(it ContentItem) (int, bool) {
	if y, ok := leadingInt(it.Year); ok {
		return y, true
	}
	if y, ok := yearFromDate(it.Date); ok {
		return y, true
	}
	if m := reYearToken.FindStringSubmatch(it.Title + " " + it.Content); m != nil {
		y, err := strconv.Atoi(m[1])
		if err == nil {
			return y, true
		}
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	m := reLeadingInt.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, false
	}
	return n, true
}

func yearFromDate(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	if m := reYearToken.FindStringSubmatch(s); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y, true
		}
	}
	return 0, false
}
