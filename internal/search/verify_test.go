package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvondra/filmoteka/internal/tmdb"
)

func TestBestMovieMatch(t *testing.T) {
	results := []*tmdb.Movie{
		{ID: 1, Title: "The Matrix Reloaded"},
		{ID: 2, Title: "The Matrix"},
		{ID: 3, Title: "Matrix Resurrections"},
	}

	movie, score := BestMovieMatch("The Matrix", results)
	require.NotNil(t, movie)
	assert.Equal(t, int64(2), movie.ID)
	assert.GreaterOrEqual(t, score, 0.9)
}

func TestBestMovieMatch_OriginalTitle(t *testing.T) {
	results := []*tmdb.Movie{
		{ID: 7, Title: "Cosy Dens", OriginalTitle: "Pelíšky"},
	}

	// An accented local-language query binds via the original title.
	movie, _ := BestMovieMatch("Pelisky", results)
	require.NotNil(t, movie)
	assert.Equal(t, int64(7), movie.ID)
}

func TestBestMovieMatch_BelowThreshold(t *testing.T) {
	results := []*tmdb.Movie{
		{ID: 1, Title: "Completely Unrelated Film"},
	}

	movie, score := BestMovieMatch("The Matrix", results)
	assert.Nil(t, movie)
	assert.Less(t, score, 0.70)
}

func TestBestSeriesMatch(t *testing.T) {
	results := []*tmdb.Series{
		{ID: 10, Name: "Dark Matter"},
		{ID: 11, Name: "Dark"},
	}

	show, _ := BestSeriesMatch("Dark", results)
	require.NotNil(t, show)
	assert.Equal(t, int64(11), show.ID)

	show, _ = BestSeriesMatch("Dark", nil)
	assert.Nil(t, show)
}
