package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Scan cache TTLs. Movie stream sets settle quickly once released; airing
// series grow new episodes, so they go stale much sooner.
const (
	MovieScanTTL  = 30 * 24 * time.Hour
	SeriesScanTTL = 7 * 24 * time.Hour
)

// scanStatus is the on-disk shape of the scan cache. Keys are decimal TMDB
// ids, values are unix seconds of the last successful resolve.
type scanStatus struct {
	ScannedMovies map[string]int64 `json:"scanned_movies"`
	ScannedSeries map[string]int64 `json:"scanned_tv_shows"`
	TotalScanned  int              `json:"total_scanned"`
}

// ScanCache remembers when each title was last resolved so sweeps can skip
// titles whose stream sets were refreshed recently. It reads and rewrites the
// whole file on every update; sweeps are single-threaded.
type ScanCache struct {
	path string
	now  func() time.Time
}

// NewScanCache creates a cache backed by the given file.
func NewScanCache(path string) *ScanCache {
	return &ScanCache{path: path, now: time.Now}
}

func (sc *ScanCache) read() (*scanStatus, error) {
	data, err := os.ReadFile(sc.path)
	if os.IsNotExist(err) {
		return &scanStatus{
			ScannedMovies: map[string]int64{},
			ScannedSeries: map[string]int64{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading scan cache: %w", err)
	}

	var status scanStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parsing scan cache: %w", err)
	}
	if status.ScannedMovies == nil {
		status.ScannedMovies = map[string]int64{}
	}
	if status.ScannedSeries == nil {
		status.ScannedSeries = map[string]int64{}
	}
	return &status, nil
}

func (sc *ScanCache) write(status *scanStatus) error {
	status.TotalScanned = len(status.ScannedMovies) + len(status.ScannedSeries)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scan cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sc.path), 0o755); err != nil {
		return fmt.Errorf("creating scan cache dir: %w", err)
	}
	if err := os.WriteFile(sc.path, data, 0o644); err != nil {
		return fmt.Errorf("writing scan cache: %w", err)
	}
	return nil
}

// MovieFresh reports whether a movie was resolved within its TTL.
// A cache read failure counts as not fresh.
func (sc *ScanCache) MovieFresh(tmdbID int64) bool {
	status, err := sc.read()
	if err != nil {
		return false
	}
	return sc.fresh(status.ScannedMovies[key(tmdbID)], MovieScanTTL)
}

// SeriesFresh reports whether a series was resolved within its TTL.
func (sc *ScanCache) SeriesFresh(tmdbID int64) bool {
	status, err := sc.read()
	if err != nil {
		return false
	}
	return sc.fresh(status.ScannedSeries[key(tmdbID)], SeriesScanTTL)
}

func (sc *ScanCache) fresh(scannedAt int64, ttl time.Duration) bool {
	if scannedAt == 0 {
		return false
	}
	return sc.now().Sub(time.Unix(scannedAt, 0)) < ttl
}

// MarkMovie records a successful movie resolve at the current time.
func (sc *ScanCache) MarkMovie(tmdbID int64) error {
	status, err := sc.read()
	if err != nil {
		return err
	}
	status.ScannedMovies[key(tmdbID)] = sc.now().Unix()
	return sc.write(status)
}

// MarkSeries records a successful series resolve at the current time.
func (sc *ScanCache) MarkSeries(tmdbID int64) error {
	status, err := sc.read()
	if err != nil {
		return err
	}
	status.ScannedSeries[key(tmdbID)] = sc.now().Unix()
	return sc.write(status)
}

// Forget drops a title from the cache so the next sweep rescans it.
func (sc *ScanCache) Forget(tmdbID int64) error {
	status, err := sc.read()
	if err != nil {
		return err
	}
	k := key(tmdbID)
	delete(status.ScannedMovies, k)
	delete(status.ScannedSeries, k)
	return sc.write(status)
}

func key(tmdbID int64) string {
	return strconv.FormatInt(tmdbID, 10)
}
