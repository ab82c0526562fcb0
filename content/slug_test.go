package content

import (
	"regexp"
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Weekly Competitions", "weekly-competitions"},
		{"  Hall of Fame  ", "hall-of-fame"},
		{"Rider Cup 2024!", "rider-cup-2024"},
		{"WHS -- Conversion   Tables", "whs-conversion-tables"},
		{"Exchange Days & Friendlies", "exchange-days-friendlies"},
		{"Café Société", "caf-socit"},
		{"Café Évents 2024", "caf-vents-2024"},
		{"Hall\u00a0of Fame", "hall-of-fame"},
		{"Rules\u2003and\u3000Notes", "rules-and-notes"},
		{"inter_club_matches", "inter-club-matches"},
		{"---", ""},
		{"", ""},
		{"!!!", ""},
		{"AGM Minutes (2023/24)", "agm-minutes-202324"},
	}
	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugShape(t *testing.T) {
	titles := []string{
		"Seniors' Benefits",
		"Operating Guidelines — 2025 edition",
		"\tTabs\tand\nnewlines\n",
		"Ünïcödé Ŧitle",
		"a_b-c d",
		"100% Stableford",
		"-leading and trailing-",
	}
	for _, title := range titles {
		got := Slug(title)
		if got == "" {
			t.Errorf("Slug(%q) is empty", title)
			continue
		}
		if !slugShape.MatchString(got) {
			t.Errorf("Slug(%q) = %q has characters outside [a-z0-9-] or stray hyphens", title, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Slug(%q) = %q has a repeated hyphen", title, got)
		}
		if again := Slug(got); again != got {
			t.Errorf("Slug(Slug(%q)) = %q, want %q", title, again, got)
		}
	}
}

func TestItemSlugFallbacks(t *testing.T) {
	tests := []struct {
		item ContentItem
		want string
	}{
		{ContentItem{Page: "matches", Title: "Matches", Slug: "custom"}, "custom"},
		{ContentItem{Page: "matches", Title: "Inter-club Matches"}, "inter-club-matches"},
		{ContentItem{Page: "whs_conversion_tables", Title: "???"}, "whs-conversion-tables"},
		{ContentItem{Page: "***", Title: "???"}, "item"},
	}
	for _, tt := range tests {
		if got := itemSlug(tt.item); got != tt.want {
			t.Errorf("itemSlug(%+v) = %q, want %q", tt.item, got, tt.want)
		}
	}
}
