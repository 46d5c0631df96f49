package mediainfo

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are articles and conjunctions that carry no matching signal.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "&": true,
	"or": true, "but": true, "in": true, "on": true, "at": true,
	"to": true, "for": true, "of": true, "with": true, "by": true,
}

var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}\s\-]`)

// CleanQuery reduces a title to word characters, spaces and hyphens with
// collapsed whitespace. This is the base form used for search queries.
func CleanQuery(title string) string {
	s := nonWordRegex.ReplaceAllString(title, " ")
	return strings.Join(strings.Fields(s), " ")
}

// FoldAccents strips diacritics. Uploaders routinely drop them, so matching
// runs against both the accented and folded forms of a title.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// MeaningfulWords returns the lowercased words of a title with stopwords and
// words of length <= 2 removed.
func MeaningfulWords(title string) []string {
	cleaned := strings.ToLower(CleanQuery(title))
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if stopwords[w] || len(w) <= 2 {
			continue
		}
		words = append(words, w)
	}
	return words
}

// IsSingleWordTitle reports whether a title reduces to a single meaningful
// word. A lone common word is too weak a signal on its own, so callers make
// the year mandatory for such titles.
func IsSingleWordTitle(title string) bool {
	cleaned := strings.ToLower(CleanQuery(title))
	n := 0
	for _, w := range strings.Fields(cleaned) {
		if stopwords[w] || len(w) <= 1 {
			continue
		}
		n++
	}
	return n == 1
}
