// Package htmlsanitize cleans admin-entered rich text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc   = bluemonday.UGCPolicy()
	plain = bluemonday.StrictPolicy()
)

// Sanitize keeps formatting markup and drops scripts, event handlers and unsafe URLs.
func Sanitize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.TrimSpace(ugc.Sanitize(input))
}

// StripTags removes all markup, for fields that are plain text. Entities are decoded again
// so "d'été" is stored as typed.
func StripTags(input string) string {
	return strings.TrimSpace(html.UnescapeString(plain.Sanitize(input)))
}
