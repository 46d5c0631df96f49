// Package catalog defines the persisted catalog entities and the merge
// engine that reconciles freshly resolved titles into them.
package catalog

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// TitleKey is the stable identity of a title, derived from its normalized
// name and release year. It stays valid for manually added titles that have
// no external catalog id.
type TitleKey string

// NewTitleKey derives the key from a title and year. Identical (title, year)
// pairs always produce the same key; the title is matched case-insensitively.
func NewTitleKey(title, year string) TitleKey {
	text := strings.TrimSpace(strings.ToLower(title) + year)
	sum := md5.Sum([]byte(text))
	return TitleKey(hex.EncodeToString(sum[:])[:8])
}

// StreamRecord is a candidate file promoted into the catalog.
type StreamRecord struct {
	Ident    string `json:"ident"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// TitleInfo carries the descriptive metadata shared by movies and series.
type TitleInfo struct {
	ID            TitleKey `json:"id"`
	TMDBID        int64    `json:"tmdb_id,omitempty"`
	Title         string   `json:"title"`
	TitleEN       string   `json:"title_en"`
	TitleCZ       string   `json:"title_cz,omitempty"`
	Year          string   `json:"year"`
	Description   string   `json:"description,omitempty"`
	DescriptionCZ string   `json:"description_cz,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	VoteCount     int      `json:"vote_count,omitempty"`
	Poster        string   `json:"poster,omitempty"`
	Backdrop      string   `json:"backdrop,omitempty"`
}

// MovieEntry is one resolved movie with its known stream versions.
type MovieEntry struct {
	TitleInfo
	Runtime int            `json:"runtime,omitempty"`
	Streams []StreamRecord `json:"streams"`
}

// AddStream unions one stream into the entry, keyed by identifier.
// Returns true when the stream was new.
func (m *MovieEntry) AddStream(s StreamRecord) bool {
	for _, existing := range m.Streams {
		if existing.Ident == s.Ident {
			return false
		}
	}
	m.Streams = append(m.Streams, s)
	return true
}

// SeasonMap groups streams by season number, then episode number.
// Slots only ever grow; nothing is overwritten.
type SeasonMap map[int]map[int][]StreamRecord

// Add unions one stream into a (season, episode) slot.
// Returns true when the stream was new for that slot.
func (sm SeasonMap) Add(season, episode int, s StreamRecord) bool {
	eps, ok := sm[season]
	if !ok {
		eps = make(map[int][]StreamRecord)
		sm[season] = eps
	}
	for _, existing := range eps[episode] {
		if existing.Ident == s.Ident {
			return false
		}
	}
	eps[episode] = append(eps[episode], s)
	return true
}

// Has reports whether a stream identifier is already present in a slot.
func (sm SeasonMap) Has(season, episode int, ident string) bool {
	for _, existing := range sm[season][episode] {
		if existing.Ident == ident {
			return true
		}
	}
	return false
}

// Episodes returns the number of distinct (season, episode) slots.
func (sm SeasonMap) Episodes() int {
	n := 0
	for _, eps := range sm {
		n += len(eps)
	}
	return n
}

// Files returns the number of streams across all slots.
func (sm SeasonMap) Files() int {
	n := 0
	for _, eps := range sm {
		for _, streams := range eps {
			n += len(streams)
		}
	}
	return n
}

// Clone deep-copies the map so merges never mutate a caller's snapshot.
func (sm SeasonMap) Clone() SeasonMap {
	out := make(SeasonMap, len(sm))
	for season, eps := range sm {
		outEps := make(map[int][]StreamRecord, len(eps))
		for ep, streams := range eps {
			outEps[ep] = append([]StreamRecord(nil), streams...)
		}
		out[season] = outEps
	}
	return out
}

// EpisodeDetail is one aired episode as listed by the metadata catalog.
type EpisodeDetail struct {
	Episode int    `json:"episode"`
	Name    string `json:"name,omitempty"`
	AirDate string `json:"air_date,omitempty"`
}

// SeasonDetail lists the aired episodes of one season.
type SeasonDetail struct {
	Season   int             `json:"season"`
	Episodes []EpisodeDetail `json:"episodes"`
}

// SeriesEntry is one resolved TV show with streams grouped per episode.
type SeriesEntry struct {
	TitleInfo
	TotalSeasons  int            `json:"total_seasons,omitempty"`
	TotalEpisodes int            `json:"total_episodes,omitempty"`
	Status        string         `json:"status,omitempty"`
	SeasonDetails []SeasonDetail `json:"season_details,omitempty"`
	Seasons       SeasonMap      `json:"seasons"`
}

// Stats summarizes a catalog snapshot.
type Stats struct {
	MoviesCount     int       `json:"movies_count"`
	SeriesCount     int       `json:"tv_shows_count"`
	TotalEpisodes   int       `json:"total_episodes"`
	TotalMovieFiles int       `json:"total_movie_files"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Catalog is the complete persisted snapshot.
type Catalog struct {
	Movies      []*MovieEntry  `json:"movies"`
	Series      []*SeriesEntry `json:"tv_shows"`
	Stats       Stats          `json:"stats"`
	LastUpdated time.Time      `json:"last_updated"`
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Movies: []*MovieEntry{},
		Series: []*SeriesEntry{},
	}
}

// MovieByTMDBID returns the movie with the given external id, or nil.
func (c *Catalog) MovieByTMDBID(id int64) *MovieEntry {
	for _, m := range c.Movies {
		if m.TMDBID == id {
			return m
		}
	}
	return nil
}

// SeriesByTMDBID returns the series with the given external id, or nil.
func (c *Catalog) SeriesByTMDBID(id int64) *SeriesEntry {
	for _, s := range c.Series {
		if s.TMDBID == id {
			return s
		}
	}
	return nil
}

func (c *Catalog) recomputeStats(now time.Time) {
	stats := Stats{
		MoviesCount: len(c.Movies),
		SeriesCount: len(c.Series),
		LastUpdated: now,
	}
	for _, m := range c.Movies {
		stats.TotalMovieFiles += len(m.Streams)
	}
	for _, s := range c.Series {
		stats.TotalEpisodes += s.Seasons.Episodes()
	}
	c.Stats = stats
	c.LastUpdated = now
}
