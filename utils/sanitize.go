package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses bounds how many layers of entity encoding are peeled off.
const maxSanitizePasses = 4

var sanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user supplied text and trims surrounding space.
// The result is plain text. Entities are decoded only while decoding does not reveal new markup;
// text that keeps decoding into markup is returned escaped.
func SanitizeText(input string) string {
	text := input
	for i := 0; i < maxSanitizePasses; i++ {
		stripped := html.UnescapeString(sanitizer.Sanitize(text))
		if stripped == text {
			return strings.TrimSpace(text)
		}
		text = stripped
	}
	return strings.TrimSpace(sanitizer.Sanitize(text))
}
