package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/internal/organizer"
	"github.com/pvondra/filmoteka/internal/search"
	"github.com/pvondra/filmoteka/internal/tmdb"
	"github.com/pvondra/filmoteka/pkg/webshare"
)

// ErrNoTitle is returned when neither a metadata id nor a usable title query
// resolves to a known title.
var ErrNoTitle = errors.New("title not found in metadata catalog")

// AddOptions describes one manually added title. Exactly one of TMDBID and
// Title must be set; Link optionally pins a specific file instead of running
// a full search.
type AddOptions struct {
	TMDBID  int64
	Title   string
	Kind    string // "movie", "series" or "" for auto-detection
	Link    string
	Season  int
	Episode int
}

// Add puts a title under manual curation and merges it into the catalog.
// Manual titles are re-applied after every sweep, so they can never be lost
// to a batch refresh.
func (r *Runner) Add(ctx context.Context, opts AddOptions) (string, error) {
	movie, show, err := r.resolveTitle(ctx, opts)
	if err != nil {
		return "", err
	}

	manual, err := r.manual.Load()
	if err != nil {
		return "", err
	}
	cat, err := r.store.Load()
	if err != nil {
		return "", err
	}

	var name string
	if movie != nil {
		entry := r.movieEntry(ctx, movie)
		if err := r.attachMovieStreams(ctx, entry, opts); err != nil {
			return "", err
		}
		manual.UpsertMovie(entry)
		cat.MergeMovie(entry)
		if err := r.scans.MarkMovie(movie.ID); err != nil {
			r.log.Warn("scan cache update failed", "tmdb_id", movie.ID, "error", err)
		}
		name = entry.Title
	} else {
		entry := r.seriesEntry(ctx, show)
		if err := r.attachSeriesStreams(ctx, entry, opts); err != nil {
			return "", err
		}
		manual.UpsertSeries(entry)
		cat.MergeSeries(entry)
		if err := r.scans.MarkSeries(show.ID); err != nil {
			r.log.Warn("scan cache update failed", "tmdb_id", show.ID, "error", err)
		}
		name = entry.Title
	}

	if err := r.manual.Save(manual); err != nil {
		return "", err
	}
	if err := r.store.Save(cat); err != nil {
		return "", err
	}
	return name, nil
}

// resolveTitle finds the metadata record for the options, auto-detecting the
// content kind when it is not forced: a numeric id is tried as a movie
// first, then as a TV show.
func (r *Runner) resolveTitle(ctx context.Context, opts AddOptions) (*tmdb.Movie, *tmdb.Series, error) {
	switch {
	case opts.TMDBID != 0:
		if opts.Kind != "series" {
			if movie, err := r.meta.GetMovie(ctx, opts.TMDBID); err == nil {
				return movie, nil, nil
			} else if opts.Kind == "movie" {
				return nil, nil, fmt.Errorf("movie %d: %w", opts.TMDBID, err)
			}
		}
		show, err := r.meta.GetSeries(ctx, opts.TMDBID)
		if err != nil {
			return nil, nil, fmt.Errorf("title %d: %w", opts.TMDBID, err)
		}
		return nil, show, nil

	case opts.Title != "":
		if opts.Kind != "series" {
			results, err := r.meta.SearchMovies(ctx, opts.Title)
			if err == nil {
				if movie, score := search.BestMovieMatch(opts.Title, results); movie != nil {
					r.log.Debug("matched movie", "title", movie.Title, "score", score)
					full, err := r.meta.GetMovie(ctx, movie.ID)
					if err != nil {
						full = movie
					}
					return full, nil, nil
				}
			}
			if opts.Kind == "movie" {
				return nil, nil, fmt.Errorf("%q: %w", opts.Title, ErrNoTitle)
			}
		}
		results, err := r.meta.SearchSeries(ctx, opts.Title)
		if err != nil {
			return nil, nil, fmt.Errorf("%q: %w", opts.Title, err)
		}
		show, score := search.BestSeriesMatch(opts.Title, results)
		if show == nil {
			return nil, nil, fmt.Errorf("%q: %w", opts.Title, ErrNoTitle)
		}
		r.log.Debug("matched series", "title", show.Name, "score", score)
		full, err := r.meta.GetSeries(ctx, show.ID)
		if err != nil {
			full = show
		}
		return nil, full, nil
	}

	return nil, nil, errors.New("either a metadata id or a title is required")
}

func (r *Runner) attachMovieStreams(ctx context.Context, entry *catalog.MovieEntry, opts AddOptions) error {
	if opts.Link != "" {
		stream, err := r.streamFromLink(ctx, opts.Link)
		if err != nil {
			return err
		}
		entry.AddStream(*stream)
		return nil
	}

	if err := r.ws.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	files, err := r.resolver.FindMovieFiles(ctx, entry.TitleEN, entry.TitleCZ, entry.Year)
	if err != nil {
		return err
	}
	for _, f := range files {
		entry.AddStream(streamRecord(f))
	}
	return nil
}

func (r *Runner) attachSeriesStreams(ctx context.Context, entry *catalog.SeriesEntry, opts AddOptions) error {
	if opts.Link != "" {
		stream, err := r.streamFromLink(ctx, opts.Link)
		if err != nil {
			return err
		}

		season, episode := opts.Season, opts.Episode
		if season == 0 || episode == 0 {
			// Fall back to the filename's own marker.
			s, e, ok := organizer.ExtractEpisode(stream.Filename)
			if !ok {
				return fmt.Errorf("cannot place %q: no season/episode marker and none given", stream.Filename)
			}
			season, episode = s, e
		}
		entry.Seasons.Add(season, episode, *stream)
		return nil
	}

	if err := r.ws.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	files, err := r.resolver.FindSeriesFiles(ctx, entry.TitleEN, entry.TitleCZ, entry.Year)
	if err != nil {
		return err
	}
	entry.Seasons = organizer.Organize(files, entry.TitleEN, entry.TitleCZ, entry.Seasons)
	return nil
}

// streamFromLink turns a share link into a stream record via the file-host
// info endpoint.
func (r *Runner) streamFromLink(ctx context.Context, link string) (*catalog.StreamRecord, error) {
	ident, err := webshare.ExtractIdent(link)
	if err != nil {
		return nil, err
	}
	if err := r.ws.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	file, err := r.ws.FileInfo(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("file info: %w", err)
	}
	record := streamRecord(*file)
	return &record, nil
}

// RemoveResult reports how many entries one removal touched.
type RemoveResult struct {
	Movies int
	Series int
}

// Remove deletes matching titles from both the catalog and the manual store.
// Explicit removal is the only deletion path; it also clears the scan cache
// so a future sweep may re-resolve the title if it reappears.
func (r *Runner) Remove(tmdbID int64, title string) (*RemoveResult, error) {
	cat, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	manual, err := r.manual.Load()
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{}
	result.Movies += cat.RemoveMovie(tmdbID, title)
	result.Series += cat.RemoveSeries(tmdbID, title)
	manual.RemoveMovie(tmdbID, title)
	manual.RemoveSeries(tmdbID, title)

	if tmdbID != 0 {
		if err := r.scans.Forget(tmdbID); err != nil {
			r.log.Warn("scan cache update failed", "tmdb_id", tmdbID, "error", err)
		}
	}

	if err := r.manual.Save(manual); err != nil {
		return nil, err
	}
	if err := r.store.Save(cat); err != nil {
		return nil, err
	}
	return result, nil
}
