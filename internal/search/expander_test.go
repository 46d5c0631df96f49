package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandQueries_Movie(t *testing.T) {
	queries := ExpandQueries("The Matrix", "1999", KindMovie)
	require.NotEmpty(t, queries)

	assert.Equal(t, "The Matrix", queries[0], "base form comes first")
	assert.Contains(t, queries, "the matrix")
	assert.Contains(t, queries, "The Matrix 1999")
	assert.Contains(t, queries, "The Matrix (1999)")
	assert.Contains(t, queries, "Matrix", "article-stripped form for movies")
	assert.Contains(t, queries, "The Matrix cz")
	assert.Contains(t, queries, "The Matrix czech")
	assert.Contains(t, queries, "The Matrix dabing")
	assert.NotContains(t, queries, "The Matrix season", "season variants are series-only")
}

func TestExpandQueries_Series(t *testing.T) {
	queries := ExpandQueries("Dark", "2017", KindSeries)

	assert.Contains(t, queries, "Dark season")
	assert.Contains(t, queries, "Dark s01")
	assert.Contains(t, queries, "Dark s1")
	assert.Contains(t, queries, "Dark 2017 season")
	assert.Contains(t, queries, "Dark 2017 s01")
}

func TestExpandQueries_AmpersandSubstitution(t *testing.T) {
	queries := ExpandQueries("Law & Order", "", KindSeries)
	assert.Contains(t, queries, "Law and Order")

	queries = ExpandQueries("Fast and Furious", "", KindMovie)
	assert.Contains(t, queries, "Fast & Furious")
}

func TestExpandQueries_Constraints(t *testing.T) {
	queries := ExpandQueries("The Lord of the Rings The Fellowship of the Ring", "2001", KindSeries)
	assert.LessOrEqual(t, len(queries), 20)

	seen := make(map[string]struct{})
	for _, q := range queries {
		assert.GreaterOrEqual(t, len(q), 3, "queries shorter than 3 are dropped")
		_, dup := seen[q]
		assert.False(t, dup, "duplicate query %q", q)
		seen[q] = struct{}{}
	}
}

func TestExpandQueries_StripsPunctuation(t *testing.T) {
	queries := ExpandQueries("Pelíšky: The Movie?!", "1999", KindMovie)
	require.NotEmpty(t, queries)
	for _, q := range queries {
		assert.False(t, strings.ContainsAny(q, ":?!"), "punctuation leaked into %q", q)
	}
}

func TestExpandQueries_TooShort(t *testing.T) {
	assert.Empty(t, ExpandQueries("?", "", KindMovie))
	assert.Empty(t, ExpandQueries("", "1999", KindMovie))
}
