package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManualContent holds operator-added titles. They live outside the sweep
// cycle and are re-merged into the catalog after every sweep, so automated
// refreshes can never drop them.
type ManualContent struct {
	Movies []*MovieEntry  `json:"movies"`
	Series []*SeriesEntry `json:"tv_shows"`
}

// ManualStore persists the manual content file.
type ManualStore struct {
	path string
}

// NewManualStore creates a store for the given path.
func NewManualStore(path string) *ManualStore {
	return &ManualStore{path: path}
}

// Load reads the manual content. A missing file yields empty content.
func (ms *ManualStore) Load() (*ManualContent, error) {
	data, err := os.ReadFile(ms.path)
	if os.IsNotExist(err) {
		return &ManualContent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manual content: %w", err)
	}

	var mc ManualContent
	if err := json.Unmarshal(data, &mc); err != nil {
		return nil, fmt.Errorf("parsing manual content: %w", err)
	}
	for _, series := range mc.Series {
		if series.Seasons == nil {
			series.Seasons = SeasonMap{}
		}
	}
	return &mc, nil
}

// Save writes the manual content file.
func (ms *ManualStore) Save(mc *ManualContent) error {
	data, err := json.MarshalIndent(mc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manual content: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(ms.path), 0o755); err != nil {
		return fmt.Errorf("creating manual content dir: %w", err)
	}
	if err := os.WriteFile(ms.path, data, 0o644); err != nil {
		return fmt.Errorf("writing manual content: %w", err)
	}
	return nil
}

// UpsertMovie replaces an existing manual movie with the same identity or
// appends a new one, unioning streams from the previous record.
func (mc *ManualContent) UpsertMovie(entry *MovieEntry) {
	for i, m := range mc.Movies {
		if sameIdentity(m.TitleInfo, entry.TitleInfo) {
			for _, s := range m.Streams {
				entry.AddStream(s)
			}
			mc.Movies[i] = entry
			return
		}
	}
	mc.Movies = append(mc.Movies, entry)
}

// UpsertSeries replaces an existing manual series with the same identity or
// appends a new one, unioning per-episode streams from the previous record.
func (mc *ManualContent) UpsertSeries(entry *SeriesEntry) {
	if entry.Seasons == nil {
		entry.Seasons = SeasonMap{}
	}
	for i, s := range mc.Series {
		if sameIdentity(s.TitleInfo, entry.TitleInfo) {
			for season, eps := range s.Seasons {
				for ep, streams := range eps {
					for _, stream := range streams {
						entry.Seasons.Add(season, ep, stream)
					}
				}
			}
			mc.Series[i] = entry
			return
		}
	}
	mc.Series = append(mc.Series, entry)
}

// RemoveMovie drops manual movies matching a TMDB id or title substring.
func (mc *ManualContent) RemoveMovie(tmdbID int64, title string) int {
	kept := mc.Movies[:0]
	removed := 0
	for _, m := range mc.Movies {
		if matchesRemoval(m.TitleInfo, tmdbID, title) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	mc.Movies = kept
	return removed
}

// RemoveSeries drops manual series matching a TMDB id or title substring.
func (mc *ManualContent) RemoveSeries(tmdbID int64, title string) int {
	kept := mc.Series[:0]
	removed := 0
	for _, s := range mc.Series {
		if matchesRemoval(s.TitleInfo, tmdbID, title) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	mc.Series = kept
	return removed
}

// ApplyTo merges all manual entries into the catalog.
func (mc *ManualContent) ApplyTo(cat *Catalog) {
	for _, m := range mc.Movies {
		cat.MergeMovie(m)
	}
	for _, s := range mc.Series {
		cat.MergeSeries(s)
	}
}

func sameIdentity(a, b TitleInfo) bool {
	if a.TMDBID != 0 && b.TMDBID != 0 {
		return a.TMDBID == b.TMDBID
	}
	return a.ID == b.ID
}
