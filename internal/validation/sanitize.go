package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripHTML removes all markup from s and returns plain text. Entities
// escaped by the policy are decoded again because the result is served as
// JSON, not HTML.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
