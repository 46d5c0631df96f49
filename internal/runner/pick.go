package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/internal/ranker"
)

// ErrNotInCatalog is returned when a pick query matches no catalog entry.
var ErrNotInCatalog = errors.New("no catalog entry matches")

// Pick is the ranked playback selection for one title.
type Pick struct {
	Title  string
	Ranked []ranker.RankedStream
	Best   catalog.StreamRecord
	Link   string
}

// PickStream ranks a cataloged title's streams against the configured
// preferences and resolves a download link for the best candidate. For
// series, season and episode select the slot.
func (r *Runner) PickStream(ctx context.Context, query string, season, episode int) (*Pick, error) {
	cat, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	title, streams, err := findStreams(cat, query, season, episode)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, fmt.Errorf("%q: no streams resolved yet", title)
	}

	prefs := r.Preferences()
	best, _ := ranker.SelectBest(streams, prefs)

	if err := r.ws.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	link, err := r.ws.FileLink(ctx, best.Ident)
	if err != nil {
		return nil, fmt.Errorf("stream link: %w", err)
	}

	return &Pick{
		Title:  title,
		Ranked: ranker.Rank(streams, prefs),
		Best:   best,
		Link:   link,
	}, nil
}

func findStreams(cat *catalog.Catalog, query string, season, episode int) (string, []catalog.StreamRecord, error) {
	q := strings.ToLower(query)

	for _, m := range cat.Movies {
		if entryMatches(m.TitleInfo, q) {
			return m.Title, m.Streams, nil
		}
	}
	for _, s := range cat.Series {
		if !entryMatches(s.TitleInfo, q) {
			continue
		}
		if season == 0 || episode == 0 {
			return s.Title, nil, fmt.Errorf("%q is a series: season and episode are required", s.Title)
		}
		label := fmt.Sprintf("%s S%02dE%02d", s.Title, season, episode)
		return label, s.Seasons[season][episode], nil
	}
	return "", nil, fmt.Errorf("%q: %w", query, ErrNotInCatalog)
}

func entryMatches(info catalog.TitleInfo, q string) bool {
	return strings.Contains(strings.ToLower(info.Title), q) ||
		strings.Contains(strings.ToLower(info.TitleEN), q) ||
		strings.Contains(strings.ToLower(info.TitleCZ), q)
}

// Status returns the current catalog statistics.
func (r *Runner) Status() (*catalog.Stats, error) {
	cat, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	stats := cat.Stats
	return &stats, nil
}
