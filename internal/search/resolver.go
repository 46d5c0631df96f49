package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pvondra/filmoteka/pkg/webshare"
)

var compactEpisodeRegex = regexp.MustCompile(`[Ss]\d{1,2}[Ee]\d{1,2}`)

func seasonQuery(title string, season int) string {
	return fmt.Sprintf("%s s%d", title, season)
}

// Per-title result budgets. Series sweep more queries because each episode
// is its own upload.
const (
	movieMaxResults    = 50
	movieCZMaxResults  = 30
	seriesMaxResults   = 200
	seriesCZMaxResults = 150
	movieBatchSize     = 100
	seriesBatchSize    = 200
)

// Resolver runs the expand-search-filter pipeline for one title at a time.
type Resolver struct {
	gateway Gateway
	log     *slog.Logger
}

// NewResolver creates a resolver over the given gateway.
func NewResolver(gateway Gateway, log *slog.Logger) *Resolver {
	return &Resolver{
		gateway: gateway,
		log:     log.With("component", "search"),
	}
}

// fatal reports errors that must abort the whole run. Anything else is a
// per-query failure the pipeline absorbs.
func fatal(err error) bool {
	return errors.Is(err, webshare.ErrAuthFailed) ||
		errors.Is(err, webshare.ErrNotLoggedIn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// comprehensive expands a title into queries and accumulates matching
// candidates across them, deduplicated by identifier.
func (r *Resolver) comprehensive(ctx context.Context, title, year string, kind Kind, maxResults int, strict bool) ([]webshare.File, error) {
	var (
		files []webshare.File
		seen  = make(map[string]struct{})
	)

	batch := movieBatchSize
	if kind == KindSeries {
		batch = seriesBatchSize
	}

	for _, query := range ExpandQueries(title, year, kind) {
		hits, err := r.gateway.Search(ctx, query, batch)
		if err != nil {
			if fatal(err) {
				return nil, err
			}
			r.log.Warn("query failed, continuing", "query", query, "error", err)
			continue
		}

		for _, file := range hits {
			if _, dup := seen[file.Ident]; dup {
				continue
			}
			filename := strings.ToLower(file.Name)

			var matched bool
			if kind == KindMovie {
				matched = matchesMovieCandidate(filename, title, year, strict)
			} else {
				matched = matchesSeriesCandidate(filename, title, year)
			}
			if !matched {
				continue
			}

			files = append(files, file)
			seen[file.Ident] = struct{}{}
			if len(files) >= maxResults {
				return files, nil
			}
		}
	}
	return files, nil
}

// FindMovieFiles resolves one movie into accepted candidate files. Strict
// matching runs first; an empty result falls back to loose matching, and a
// distinct localized title contributes a loose pass of its own. Zero accepted
// candidates is a normal negative result, not an error.
func (r *Resolver) FindMovieFiles(ctx context.Context, titleEN, titleCZ, year string) ([]webshare.File, error) {
	r.log.Info("searching movie", "title", titleEN, "title_cz", titleCZ, "year", year)

	files, err := r.comprehensive(ctx, titleEN, year, KindMovie, movieMaxResults, true)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		r.log.Debug("no strict matches, retrying loose", "title", titleEN)
		files, err = r.comprehensive(ctx, titleEN, year, KindMovie, movieMaxResults, false)
		if err != nil {
			return nil, err
		}
	}

	if titleCZ != "" && titleCZ != titleEN {
		czFiles, err := r.comprehensive(ctx, titleCZ, year, KindMovie, movieCZMaxResults, false)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(files))
		for _, f := range files {
			seen[f.Ident] = struct{}{}
		}
		for _, f := range czFiles {
			if _, dup := seen[f.Ident]; !dup {
				files = append(files, f)
			}
		}
	}

	accepted := FilterMovie(files, titleEN, titleCZ, year)
	r.log.Info("movie candidates accepted", "title", titleEN, "raw", len(files), "accepted", len(accepted))
	return accepted, nil
}

// FindSeriesFiles resolves one series into candidate episode files across
// both title languages.
func (r *Resolver) FindSeriesFiles(ctx context.Context, titleEN, titleCZ, year string) ([]webshare.File, error) {
	r.log.Info("searching series", "title", titleEN, "title_cz", titleCZ, "year", year)

	files, err := r.comprehensive(ctx, titleEN, year, KindSeries, seriesMaxResults, false)
	if err != nil {
		return nil, err
	}

	if titleCZ != "" && titleCZ != titleEN {
		czFiles, err := r.comprehensive(ctx, titleCZ, year, KindSeries, seriesCZMaxResults, false)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(files))
		for _, f := range files {
			seen[f.Ident] = struct{}{}
		}
		for _, f := range czFiles {
			if _, dup := seen[f.Ident]; !dup {
				files = append(files, f)
			}
		}
	}

	r.log.Info("series candidates found", "title", titleEN, "files", len(files))
	return files, nil
}

// FindNewEpisodes is a cheap incremental pass for already cataloged series:
// it probes recent-season queries and keeps only episode-marked files.
func (r *Resolver) FindNewEpisodes(ctx context.Context, titleEN, titleCZ string, lastSeason int) ([]webshare.File, error) {
	queries := newEpisodeQueries(titleEN, titleCZ, lastSeason)

	var (
		files []webshare.File
		seen  = make(map[string]struct{})
	)
	for _, query := range queries {
		hits, err := r.gateway.Search(ctx, query, movieMaxResults)
		if err != nil {
			if fatal(err) {
				return nil, err
			}
			continue
		}
		for _, file := range hits {
			if _, dup := seen[file.Ident]; dup {
				continue
			}
			if !compactEpisodeRegex.MatchString(file.Name) {
				continue
			}
			files = append(files, file)
			seen[file.Ident] = struct{}{}
		}
	}
	return files, nil
}

func newEpisodeQueries(titleEN, titleCZ string, lastSeason int) []string {
	if lastSeason < 1 {
		lastSeason = 1
	}
	queries := []string{
		seasonQuery(titleEN, lastSeason+1),
		seasonQuery(titleEN, lastSeason),
	}
	if titleCZ != "" && titleCZ != titleEN {
		queries = append(queries,
			seasonQuery(titleCZ, lastSeason+1),
			seasonQuery(titleCZ, lastSeason),
		)
	}
	return queries
}
