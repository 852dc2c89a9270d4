package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML, keeping safe formatting.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizeText strips every tag, for single-line fields like titles and
// report reasons.
func SanitizeText(input string) string {
	return strictPolicy.Sanitize(input)
}
