package search

import (
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/pvondra/filmoteka/internal/tmdb"
	"github.com/pvondra/filmoteka/pkg/mediainfo"
)

// Minimum similarity for accepting a metadata search result as the queried
// title. Jaro-Winkler favors prefix matches, which suits media titles.
const matchThreshold = 0.70

func normalizeForMatch(title string) string {
	return strings.ToLower(mediainfo.CleanQuery(mediainfo.FoldAccents(title)))
}

func similarity(query, candidate string) float64 {
	return float64(edlib.JaroWinklerSimilarity(normalizeForMatch(query), normalizeForMatch(candidate)))
}

// BestMovieMatch picks the metadata search result closest to the query.
// Returns nil when nothing clears the similarity threshold, so a vague query
// never silently binds to the wrong title.
func BestMovieMatch(query string, results []*tmdb.Movie) (*tmdb.Movie, float64) {
	var (
		best  *tmdb.Movie
		score float64
	)
	for _, movie := range results {
		s := similarity(query, movie.Title)
		if alt := similarity(query, movie.OriginalTitle); alt > s {
			s = alt
		}
		if s > score {
			best, score = movie, s
		}
	}
	if score < matchThreshold {
		return nil, score
	}
	return best, score
}

// BestSeriesMatch picks the closest TV show search result.
func BestSeriesMatch(query string, results []*tmdb.Series) (*tmdb.Series, float64) {
	var (
		best  *tmdb.Series
		score float64
	)
	for _, series := range results {
		s := similarity(query, series.Name)
		if alt := similarity(query, series.OriginalName); alt > s {
			s = alt
		}
		if s > score {
			best, score = series, s
		}
	}
	if score < matchThreshold {
		return nil, score
	}
	return best, score
}
