// Package search turns catalog titles into filtered candidate files on the
// remote file-hosting index. Query expansion compensates for inconsistent
// uploader naming; the candidate filter restores precision afterwards.
package search

import (
	"fmt"
	"strings"

	"github.com/pvondra/filmoteka/pkg/mediainfo"
)

// Kind discriminates movie and series handling in expansion and filtering.
type Kind int

const (
	KindMovie Kind = iota
	KindSeries
)

const (
	maxQueries     = 20
	minQueryLength = 3
)

// ExpandQueries produces an ordered, deduplicated list of search queries for
// one title. The remote index does token matching only, so multiple phrasings
// are needed to cover year suffixes, article stripping, season markers and
// localized dub tags.
func ExpandQueries(title, year string, kind Kind) []string {
	base := mediainfo.CleanQuery(title)
	if len(base) < 2 {
		return nil
	}

	var queries []string
	add := func(q string) { queries = append(queries, q) }

	add(base)
	add(strings.ToLower(base))

	if year != "" {
		add(base + " " + year)
		add(fmt.Sprintf("%s (%s)", base, year))
	}

	if kind == KindMovie && strings.HasPrefix(strings.ToLower(base), "the ") {
		stripped := base[4:]
		add(stripped)
		add(strings.ToLower(stripped))
	}

	if kind == KindSeries {
		add(base + " season")
		add(base + " s01")
		add(base + " s1")
		if year != "" {
			add(base + " " + year + " season")
			add(base + " " + year + " s01")
		}
	}

	// Cleaning strips "&", so the substitution must run on the raw title.
	if strings.Contains(title, "&") {
		add(mediainfo.CleanQuery(strings.ReplaceAll(title, "&", "and")))
	}
	if strings.Contains(strings.ToLower(base), " and ") {
		add(strings.ReplaceAll(base, " and ", " & "))
	}

	add(base + " cz")
	add(base + " czech")
	add(base + " dabing")

	seen := make(map[string]struct{}, len(queries))
	unique := queries[:0]
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if len(q) < minQueryLength {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		unique = append(unique, q)
	}

	if len(unique) > maxQueries {
		unique = unique[:maxQueries]
	}
	return unique
}
