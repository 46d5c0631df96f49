// Package runner wires the resolution pipeline together and drives batch
// sweeps: metadata listing, candidate search, filtering, organization and
// the incremental catalog merge.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/internal/config"
	"github.com/pvondra/filmoteka/internal/organizer"
	"github.com/pvondra/filmoteka/internal/ranker"
	"github.com/pvondra/filmoteka/internal/search"
	"github.com/pvondra/filmoteka/internal/tmdb"
	"github.com/pvondra/filmoteka/pkg/mediainfo"
	"github.com/pvondra/filmoteka/pkg/webshare"
)

// How deep to walk the popular listings when gathering sweep targets, and
// how many metadata fetches may run at once. The file-host search stays
// strictly serial behind its own rate limiter; only metadata enrichment
// fans out.
const (
	maxListingPages   = 5
	metadataFetchers  = 4
	translationLocale = "cs"
)

// Runner owns the pipeline's collaborators for one process.
type Runner struct {
	cfg       *config.Config
	log       *slog.Logger
	meta      *tmdb.Client
	metaCache *tmdb.Cache
	ws        *webshare.Client
	resolver  *search.Resolver
	store     *catalog.Store
	manual    *catalog.ManualStore
	scans     *catalog.ScanCache
}

// New builds a runner from configuration.
func New(cfg *config.Config, log *slog.Logger) (*Runner, error) {
	cache, err := tmdb.OpenCache(cfg.TMDB.CachePath)
	if err != nil {
		return nil, fmt.Errorf("metadata cache: %w", err)
	}

	ws := webshare.NewClient(cfg.Webshare.Username, cfg.Webshare.Password)

	return &Runner{
		cfg:       cfg,
		log:       log.With("component", "runner"),
		meta:      tmdb.NewClient(cfg.TMDB.APIKey, tmdb.WithCache(cache)),
		metaCache: cache,
		ws:        ws,
		resolver:  search.NewResolver(ws, log),
		store:     catalog.NewStore(cfg.Catalog.Path, log),
		manual:    catalog.NewManualStore(cfg.Catalog.ManualPath),
		scans:     catalog.NewScanCache(cfg.Catalog.ScanCachePath),
	}, nil
}

// Close releases the runner's resources.
func (r *Runner) Close() error {
	return r.metaCache.Close()
}

// Preferences converts the configured playback preferences for the ranker.
func (r *Runner) Preferences() ranker.Preferences {
	p := r.cfg.Preferences
	return ranker.Preferences{
		PreferredLanguage: p.PreferredLanguage,
		MaxQuality:        mediainfo.ParseQuality(p.MaxQuality),
		TargetQuality:     mediainfo.ParseQuality(p.TargetQuality),
		PreferHDR:         p.PreferHDR,
		MinAudioChannels:  p.MinAudioChannels,
	}
}

// SweepOptions bounds one batch sweep. Zero values fall back to the
// configured limits.
type SweepOptions struct {
	MaxMovies int
	MaxSeries int
	NewOnly   bool
}

// SweepSummary reports what one sweep changed.
type SweepSummary struct {
	MoviesResolved int
	SeriesResolved int
	NewStreams     int
	Skipped        int
	NoMatch        int
}

// Sweep resolves a batch of popular titles into the catalog. The catalog is
// saved after every title, so an interrupted sweep leaves a valid, just
// incomplete, snapshot. A login failure aborts the run; a title that
// resolves to nothing is logged and skipped.
func (r *Runner) Sweep(ctx context.Context, opts SweepOptions) (*SweepSummary, error) {
	if opts.MaxMovies == 0 {
		opts.MaxMovies = r.cfg.Scan.MaxMovies
	}
	if opts.MaxSeries == 0 {
		opts.MaxSeries = r.cfg.Scan.MaxSeries
	}

	if err := r.ws.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	cat, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{}

	movies := r.collectMovies(ctx, opts.MaxMovies, summary)
	series := r.collectSeries(ctx, opts.MaxSeries, summary)
	r.log.Info("sweep targets gathered",
		"movies", len(movies), "series", len(series), "skipped", summary.Skipped)

	for _, movie := range movies {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.sweepMovie(ctx, cat, movie, summary); err != nil {
			return summary, err
		}
	}

	for _, show := range series {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := r.sweepSeries(ctx, cat, show, opts.NewOnly, summary); err != nil {
			return summary, err
		}
	}

	// Manual curation survives every sweep.
	manual, err := r.manual.Load()
	if err != nil {
		return summary, err
	}
	manual.ApplyTo(cat)

	if err := r.store.Save(cat); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) sweepMovie(ctx context.Context, cat *catalog.Catalog, movie *tmdb.Movie, summary *SweepSummary) error {
	entry := r.movieEntry(ctx, movie)

	files, err := r.resolver.FindMovieFiles(ctx, entry.TitleEN, entry.TitleCZ, entry.Year)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.log.Info("no files found", "title", entry.TitleEN, "year", entry.Year)
		summary.NoMatch++
		return nil
	}

	for _, f := range files {
		entry.AddStream(streamRecord(f))
	}

	result := cat.MergeMovie(entry)
	summary.MoviesResolved++
	summary.NewStreams += result.NewStreams

	if err := r.store.Save(cat); err != nil {
		return err
	}
	if err := r.scans.MarkMovie(movie.ID); err != nil {
		r.log.Warn("scan cache update failed", "tmdb_id", movie.ID, "error", err)
	}
	return nil
}

func (r *Runner) sweepSeries(ctx context.Context, cat *catalog.Catalog, show *tmdb.Series, newOnly bool, summary *SweepSummary) error {
	entry := r.seriesEntry(ctx, show)

	var existingSeasons catalog.SeasonMap
	existing := cat.SeriesByTMDBID(show.ID)
	if existing != nil {
		existingSeasons = existing.Seasons
	}

	var (
		files []webshare.File
		err   error
	)
	if newOnly && existing != nil {
		files, err = r.resolver.FindNewEpisodes(ctx, entry.TitleEN, entry.TitleCZ, lastSeason(existingSeasons))
	} else {
		files, err = r.resolver.FindSeriesFiles(ctx, entry.TitleEN, entry.TitleCZ, entry.Year)
	}
	if err != nil {
		return err
	}

	seasons := organizer.Organize(files, entry.TitleEN, entry.TitleCZ, existingSeasons)
	if seasons.Files() == 0 {
		r.log.Info("no episodes found", "title", entry.TitleEN, "year", entry.Year)
		summary.NoMatch++
		return nil
	}
	entry.Seasons = seasons

	result := cat.MergeSeries(entry)
	summary.SeriesResolved++
	summary.NewStreams += result.NewStreams

	if err := r.store.Save(cat); err != nil {
		return err
	}
	if err := r.scans.MarkSeries(show.ID); err != nil {
		r.log.Warn("scan cache update failed", "tmdb_id", show.ID, "error", err)
	}
	return nil
}

// collectMovies walks the popular listing, skips titles still within their
// scan TTL, and enriches the picks with full records. Metadata failures
// yield absence: the listing record is used as-is.
func (r *Runner) collectMovies(ctx context.Context, max int, summary *SweepSummary) []*tmdb.Movie {
	var picked []*tmdb.Movie
	for page := 1; page <= maxListingPages && len(picked) < max; page++ {
		list, err := r.meta.PopularMovies(ctx, page)
		if err != nil {
			r.log.Warn("movie listing failed", "page", page, "error", err)
			break
		}
		if len(list) == 0 {
			break
		}
		for _, m := range list {
			if len(picked) >= max {
				break
			}
			if r.scans.MovieFresh(m.ID) {
				summary.Skipped++
				continue
			}
			picked = append(picked, m)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataFetchers)
	for i, m := range picked {
		i, m := i, m
		g.Go(func() error {
			if detail, err := r.meta.GetMovie(gctx, m.ID); err == nil {
				picked[i] = detail
			}
			return nil
		})
	}
	_ = g.Wait()
	return picked
}

func (r *Runner) collectSeries(ctx context.Context, max int, summary *SweepSummary) []*tmdb.Series {
	var picked []*tmdb.Series
	for page := 1; page <= maxListingPages && len(picked) < max; page++ {
		list, err := r.meta.PopularSeries(ctx, page)
		if err != nil {
			r.log.Warn("series listing failed", "page", page, "error", err)
			break
		}
		if len(list) == 0 {
			break
		}
		for _, s := range list {
			if len(picked) >= max {
				break
			}
			if r.scans.SeriesFresh(s.ID) {
				summary.Skipped++
				continue
			}
			picked = append(picked, s)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataFetchers)
	for i, s := range picked {
		i, s := i, s
		g.Go(func() error {
			if detail, err := r.meta.GetSeries(gctx, s.ID); err == nil {
				picked[i] = detail
			}
			return nil
		})
	}
	_ = g.Wait()
	return picked
}

func (r *Runner) movieEntry(ctx context.Context, m *tmdb.Movie) *catalog.MovieEntry {
	tr := r.meta.MovieTranslation(ctx, m.ID, translationLocale)

	title := m.Title
	if tr.Title != "" {
		title = tr.Title
	}

	return &catalog.MovieEntry{
		TitleInfo: catalog.TitleInfo{
			ID:            catalog.NewTitleKey(m.Title, m.Year()),
			TMDBID:        m.ID,
			Title:         title,
			TitleEN:       m.Title,
			TitleCZ:       tr.Title,
			Year:          m.Year(),
			Description:   m.Overview,
			DescriptionCZ: tr.Overview,
			Genres:        genreNames(m.Genres),
			Rating:        m.VoteAverage,
			VoteCount:     m.VoteCount,
			Poster:        m.PosterURL("w500"),
			Backdrop:      m.BackdropURL("w780"),
		},
		Runtime: m.Runtime,
	}
}

func (r *Runner) seriesEntry(ctx context.Context, s *tmdb.Series) *catalog.SeriesEntry {
	tr := r.meta.SeriesTranslation(ctx, s.ID, translationLocale)

	title := s.Name
	if tr.Title != "" {
		title = tr.Title
	}

	return &catalog.SeriesEntry{
		TitleInfo: catalog.TitleInfo{
			ID:            catalog.NewTitleKey(s.Name, s.Year()),
			TMDBID:        s.ID,
			Title:         title,
			TitleEN:       s.Name,
			TitleCZ:       tr.Title,
			Year:          s.Year(),
			Description:   s.Overview,
			DescriptionCZ: tr.Overview,
			Genres:        genreNames(s.Genres),
			Rating:        s.VoteAverage,
			VoteCount:     s.VoteCount,
			Poster:        s.PosterURL("w500"),
			Backdrop:      s.BackdropURL("w780"),
		},
		TotalSeasons:  s.NumberOfSeasons,
		TotalEpisodes: s.NumberOfEpisodes,
		Status:        s.Status,
		SeasonDetails: r.seasonDetails(ctx, s),
		Seasons:       catalog.SeasonMap{},
	}
}

// seasonDetails fetches the aired-episode listing for each regular season.
// Failures yield absence; the entry is still usable without episode metadata.
func (r *Runner) seasonDetails(ctx context.Context, s *tmdb.Series) []catalog.SeasonDetail {
	var details []catalog.SeasonDetail
	for _, season := range s.Seasons {
		if season.SeasonNumber < 1 {
			continue
		}
		full, err := r.meta.GetSeason(ctx, s.ID, season.SeasonNumber)
		if err != nil {
			r.log.Debug("season listing unavailable",
				"tmdb_id", s.ID, "season", season.SeasonNumber, "error", err)
			continue
		}
		detail := catalog.SeasonDetail{Season: full.SeasonNumber}
		for _, ep := range full.Episodes {
			detail.Episodes = append(detail.Episodes, catalog.EpisodeDetail{
				Episode: ep.EpisodeNumber,
				Name:    ep.Name,
				AirDate: ep.AirDate,
			})
		}
		details = append(details, detail)
	}
	return details
}

func genreNames(genres []tmdb.Genre) []string {
	if len(genres) == 0 {
		return nil
	}
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names
}

func streamRecord(f webshare.File) catalog.StreamRecord {
	return catalog.StreamRecord{Ident: f.Ident, Filename: f.Name, Size: f.Size}
}

func lastSeason(seasons catalog.SeasonMap) int {
	last := 0
	for season := range seasons {
		if season > last {
			last = season
		}
	}
	return last
}
