// Package tmdb provides a client for The Movie Database API with a
// SQLite-backed response cache.
package tmdb

import "strconv"

// Movie represents TMDB movie metadata.
type Movie struct {
	ID            int64   `json:"id"`
	IMDBID        string  `json:"imdb_id,omitempty"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"` // "2024-03-01"
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Runtime       int     `json:"runtime"` // minutes
	Genres        []Genre `json:"genres"`
	Popularity    float64 `json:"popularity"`
}

// Series represents TMDB TV show metadata.
type Series struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	Status           string   `json:"status"` // "Returning Series", "Ended"
	Genres           []Genre  `json:"genres"`
	Seasons          []Season `json:"seasons"`
	Popularity       float64  `json:"popularity"`
}

// Genre represents a genre tag.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season is the per-season summary embedded in a series response.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
	AirDate      string `json:"air_date"`
}

// SeasonDetails is the full season listing from /tv/{id}/season/{n}.
type SeasonDetails struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is one aired episode in a season listing.
type Episode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	AirDate       string `json:"air_date"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() string {
	return yearOf(m.ReleaseDate)
}

// Year extracts the year from FirstAirDate.
func (s *Series) Year() string {
	return yearOf(s.FirstAirDate)
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func (m *Movie) PosterURL(size string) string {
	return imageURL(size, m.PosterPath)
}

// PosterURL returns the full poster image URL for a series.
func (s *Series) PosterURL(size string) string {
	return imageURL(size, s.PosterPath)
}

// BackdropURL returns the full backdrop image URL.
func (m *Movie) BackdropURL(size string) string {
	return imageURL(size, m.BackdropPath)
}

// BackdropURL returns the full backdrop image URL for a series.
func (s *Series) BackdropURL(size string) string {
	return imageURL(size, s.BackdropPath)
}

func imageURL(size, path string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}

// translationsResponse is the shape of /3/{movie,tv}/{id}/translations.
type translationsResponse struct {
	Translations []translation `json:"translations"`
}

type translation struct {
	ISO639 string          `json:"iso_639_1"`
	Data   translationData `json:"data"`
}

type translationData struct {
	Title    string `json:"title"` // movies
	Name     string `json:"name"`  // tv
	Overview string `json:"overview"`
}

// Translation holds localized title and overview for one language.
type Translation struct {
	Title    string
	Overview string
}

// movieList is the shape of search, popular and discover movie responses.
type movieList struct {
	Page         int      `json:"page"`
	Results      []*Movie `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type seriesList struct {
	Page         int       `json:"page"`
	Results      []*Series `json:"results"`
	TotalPages   int       `json:"total_pages"`
	TotalResults int       `json:"total_results"`
}
