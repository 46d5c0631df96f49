package search

import (
	"regexp"
	"strings"

	"github.com/pvondra/filmoteka/pkg/mediainfo"
)

// Filenames on the index are uploader-chosen, so a title may be joined by
// spaces, dots, dashes or underscores. separatorVariants enumerates the
// joined forms checked against a filename.
func separatorVariants(title string) []string {
	return []string{
		title,
		strings.ReplaceAll(title, " ", "."),
		strings.ReplaceAll(title, " ", "-"),
		strings.ReplaceAll(title, " ", "_"),
	}
}

// Strict matching requires the joined title to sit between recognized
// boundary characters. The pairs are an explicit, audited table; extending
// it changes the matching contract.
var boundaryPairs = []struct{ pre, post string }{
	{" ", " "},
	{".", "."},
	{"-", "-"},
	{"_", "_"},
	{" ", "."},
	{".", " "},
	{" ", "-"},
	{"-", " "},
	{" ", "_"},
	{"_", " "},
}

// Boundary forms anchored at the start or end of the filename.
var (
	startBoundaries = []string{"", ".", "-", "_"}
	endBoundaries   = []string{"", ".", "-", "_"}
)

var filenameTokenRegex = regexp.MustCompile(`[.\-_\s]+`)

const wordOverlapThreshold = 0.7

// titleMatches reports whether a filename plausibly represents a title.
//
// Strict mode demands a boundary-flanked occurrence of a separator variant.
// Loose mode accepts bare substring presence, but only when at least 70% of
// the title's meaningful words appear among the filename's tokens. When a
// year is given it must appear verbatim in the filename in either mode.
func titleMatches(filename, title, year string, strict bool) bool {
	if filename == "" || title == "" {
		return false
	}

	filename = strings.ToLower(filename)
	title = strings.ToLower(title)

	if strict {
		for _, variant := range separatorVariants(title) {
			if matchesWithBoundary(filename, variant) && yearPresent(filename, year) {
				return true
			}
		}
		return false
	}

	for _, variant := range separatorVariants(title) {
		if looseMatch(filename, variant) && yearPresent(filename, year) {
			return true
		}
	}

	// Uploaders often drop the article, retry without it.
	if stripped, ok := strings.CutPrefix(title, "the "); ok {
		for _, variant := range separatorVariants(stripped) {
			if looseMatch(filename, variant) && yearPresent(filename, year) {
				return true
			}
		}
	}
	return false
}

func matchesWithBoundary(filename, variant string) bool {
	for _, pair := range boundaryPairs {
		if strings.Contains(filename, pair.pre+variant+pair.post) {
			return true
		}
	}
	for _, post := range startBoundaries {
		if strings.HasPrefix(filename, variant+post) {
			return true
		}
	}
	for _, pre := range endBoundaries {
		if strings.HasSuffix(filename, pre+variant) {
			return true
		}
	}
	return false
}

func looseMatch(filename, variant string) bool {
	if !strings.Contains(filename, variant) {
		return false
	}

	variantWords := filenameTokenRegex.Split(variant, -1)
	fileWords := make(map[string]struct{})
	for _, w := range filenameTokenRegex.Split(filename, -1) {
		fileWords[w] = struct{}{}
	}

	matched := 0
	for _, w := range variantWords {
		if _, ok := fileWords[w]; ok {
			matched++
		}
	}
	if len(variantWords) == 0 {
		return false
	}
	return float64(matched)/float64(len(variantWords)) >= wordOverlapThreshold
}

func yearPresent(filename, year string) bool {
	if year == "" {
		return true
	}
	return strings.Contains(filename, year)
}

// TitleMatchesLoose reports whether a filename loosely matches a title with
// no year requirement. The episode organizer uses it as its title gate.
func TitleMatchesLoose(filename, title string) bool {
	return titleMatches(filename, title, "", false)
}

// isSingleWordTitle reports whether a title reduces to one meaningful word.
// Such titles are too weak a signal on their own, so the filter makes the
// year mandatory for them.
func isSingleWordTitle(title string) bool {
	return mediainfo.IsSingleWordTitle(title)
}
