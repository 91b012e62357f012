// Package slug derives URL-safe path segments from song and category names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches runs of anything that is not a lowercase letter or digit.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Characters NFKD decomposition does not fold to ASCII on its own.
var specialFolds = strings.NewReplacer(
	"ø", "o",
	"ß", "ss",
	"œ", "oe",
	"æ", "ae",
	"đ", "d",
	"–", "-",
	"—", "-",
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
)

// Make converts a title or category name to a URL-safe slug.
// "Alouette" -> "alouette", "Größe" -> "grosse", "Rock & Roll!" -> "rock-roll".
// Runs of non-alphanumeric characters collapse to a single '-'; leading and
// trailing separators are trimmed. The result may be empty for names with no
// representable characters.
func Make(s string) string {
	s = specialFolds.Replace(strings.ToLower(s))

	// Decompose accented characters, then drop the combining marks and
	// anything else outside ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
