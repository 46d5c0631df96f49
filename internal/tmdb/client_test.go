package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		resp := Movie{
			ID:          603,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-30",
			VoteAverage: 8.2,
			Runtime:     136,
			Genres:      []Genre{{ID: 28, Name: "Action"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, int64(603), movie.ID)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, "1999", movie.Year())
	assert.Equal(t, 136, movie.Runtime)
}

func TestClient_GetMovie_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movie, err := client.GetMovie(context.Background(), 99999999)
	assert.Nil(t, movie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetMovie_Cached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(Movie{ID: 603, Title: "The Matrix"})
	}))
	defer server.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCache(cache))

	_, err = client.GetMovie(context.Background(), 603)
	require.NoError(t, err)
	movie, err := client.GetMovie(context.Background(), 603)
	require.NoError(t, err)

	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, 1, calls, "second fetch must hit the cache")
}

func TestClient_GetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/70523", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Series{
			ID:               70523,
			Name:             "Dark",
			FirstAirDate:     "2017-12-01",
			NumberOfSeasons:  3,
			NumberOfEpisodes: 26,
			Status:           "Ended",
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	series, err := client.GetSeries(context.Background(), 70523)
	require.NoError(t, err)
	assert.Equal(t, "Dark", series.Name)
	assert.Equal(t, "2017", series.Year())
	assert.Equal(t, 3, series.NumberOfSeasons)
}

func TestClient_GetSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/70523/season/2", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SeasonDetails{
			SeasonNumber: 2,
			Episodes: []Episode{
				{EpisodeNumber: 1, Name: "Beginnings and Endings"},
				{EpisodeNumber: 2, Name: "Dark Matter"},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	season, err := client.GetSeason(context.Background(), 70523, 2)
	require.NoError(t, err)
	require.Len(t, season.Episodes, 2)
	assert.Equal(t, 2, season.Episodes[1].EpisodeNumber)
}

func TestClient_SearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "the matrix", r.URL.Query().Get("query"))
		_ = json.NewEncoder(w).Encode(movieList{
			Page:    1,
			Results: []*Movie{{ID: 603, Title: "The Matrix"}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	results, err := client.SearchMovies(context.Background(), "the matrix")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(603), results[0].ID)
}

func TestClient_MovieTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/603/translations", r.URL.Path)
		_ = json.NewEncoder(w).Encode(translationsResponse{
			Translations: []translation{
				{ISO639: "de", Data: translationData{Title: "Matrix (DE)"}},
				{ISO639: "cs", Data: translationData{Title: "Matrix", Overview: "Neo..."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	tr := client.MovieTranslation(context.Background(), 603, "cs")
	assert.Equal(t, "Matrix", tr.Title)
	assert.Equal(t, "Neo...", tr.Overview)

	assert.Empty(t, client.MovieTranslation(context.Background(), 603, "xx").Title)
}

func TestClient_MovieTranslation_FailureYieldsAbsence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	assert.Zero(t, client.MovieTranslation(context.Background(), 603, "cs"))
}

func TestClient_PopularMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/popular", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_ = json.NewEncoder(w).Encode(movieList{
			Page:    2,
			Results: []*Movie{{ID: 1}, {ID: 2}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	movies, err := client.PopularMovies(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}
