package content

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var bodyPolicy = newBodyPolicy()

func newBodyPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div", "table", "td", "th")
	policy.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
	policy.RequireNoFollowOnLinks(false)
	return policy
}

// PrepareHTML turns a stored body into markup safe to embed in a page.
// Bodies are sometimes stored entity-encoded, so entities are decoded
// before sanitising.
func PrepareHTML(body string) string {
	return bodyPolicy.Sanitize(html.UnescapeString(body))
}
