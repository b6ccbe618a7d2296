package alerts

import "strings"

// colorVocabulary lists the variant colors the dashboard can swatch.
var colorVocabulary = []string{
	"black", "white", "grey", "gray", "blue", "navy", "red", "green",
	"olive", "yellow", "orange", "brown", "beige", "cream", "pink",
	"purple", "burgundy", "teal", "natural", "charcoal",
}

// ExtractColor pulls a color out of a variant title like "Navy / XL".
// Segments split on "/" are compared whole and case-insensitively; the first
// vocabulary hit is returned in its original casing. Titles without a known
// color yield an empty string.
func ExtractColor(variantTitle string) string {
	for _, segment := range strings.Split(variantTitle, "/") {
		segment = strings.TrimSpace(segment)
		for _, color := range colorVocabulary {
			if strings.EqualFold(segment, color) {
				return segment
			}
		}
	}

	return ""
}
