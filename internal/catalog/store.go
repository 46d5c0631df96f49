package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Store persists catalog snapshots as JSON. Every save first copies the
// previous snapshot to a timestamped backup, then writes the new one through
// a temp file and rename so a crash never leaves a half-written catalog.
type Store struct {
	path string
	log  *slog.Logger
	now  func() time.Time
}

// NewStore creates a store for the given snapshot path.
func NewStore(path string, log *slog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With("component", "catalog"),
		now:  time.Now,
	}
}

// Load reads the snapshot. A missing file yields an empty catalog, not an
// error, so a fresh deployment starts from nothing.
func (s *Store) Load() (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Info("no catalog snapshot found, starting empty", "path", s.path)
		return NewCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if cat.Movies == nil {
		cat.Movies = []*MovieEntry{}
	}
	if cat.Series == nil {
		cat.Series = []*SeriesEntry{}
	}
	for _, series := range cat.Series {
		if series.Seasons == nil {
			series.Seasons = SeasonMap{}
		}
	}
	return &cat, nil
}

// Save recomputes the statistics block and writes the snapshot.
func (s *Store) Save(cat *Catalog) error {
	cat.recomputeStats(s.now())

	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}

	if err := s.backup(); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}

	s.log.Debug("catalog saved",
		"movies", cat.Stats.MoviesCount,
		"series", cat.Stats.SeriesCount,
		"episodes", cat.Stats.TotalEpisodes)
	return nil
}

func (s *Store) backup() error {
	prev, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading catalog for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%d", s.path, s.now().Unix())
	if err := os.WriteFile(backupPath, prev, 0o644); err != nil {
		return fmt.Errorf("writing catalog backup: %w", err)
	}
	return nil
}
