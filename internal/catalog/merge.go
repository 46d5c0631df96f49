package catalog

import "strings"

// The merge engine is the only mutator of the persisted catalog. Stream data
// is unioned, never replaced, so repeating a merge with identical input is a
// no-op.

// MergeResult reports what one merge changed.
type MergeResult struct {
	Created    bool
	NewStreams int
}

// findMovie locates an entry by external id first (authoritative when
// present), falling back to the TitleKey for manually added titles.
func (c *Catalog) findMovie(e *MovieEntry) *MovieEntry {
	if e.TMDBID != 0 {
		for _, m := range c.Movies {
			if m.TMDBID == e.TMDBID {
				return m
			}
		}
		return nil
	}
	for _, m := range c.Movies {
		if m.TMDBID == 0 && m.ID == e.ID {
			return m
		}
	}
	return nil
}

func (c *Catalog) findSeries(e *SeriesEntry) *SeriesEntry {
	if e.TMDBID != 0 {
		for _, s := range c.Series {
			if s.TMDBID == e.TMDBID {
				return s
			}
		}
		return nil
	}
	for _, s := range c.Series {
		if s.TMDBID == 0 && s.ID == e.ID {
			return s
		}
	}
	return nil
}

// MergeMovie reconciles a freshly resolved movie into the catalog.
// Descriptive metadata is refreshed from the new entry; the stream set is
// unioned by identifier.
func (c *Catalog) MergeMovie(entry *MovieEntry) MergeResult {
	existing := c.findMovie(entry)
	if existing == nil {
		added := &MovieEntry{TitleInfo: entry.TitleInfo, Runtime: entry.Runtime}
		for _, s := range entry.Streams {
			added.AddStream(s)
		}
		c.Movies = append(c.Movies, added)
		return MergeResult{Created: true, NewStreams: len(added.Streams)}
	}

	existing.TitleInfo = refreshInfo(existing.TitleInfo, entry.TitleInfo)
	if entry.Runtime != 0 {
		existing.Runtime = entry.Runtime
	}

	var result MergeResult
	for _, s := range entry.Streams {
		if existing.AddStream(s) {
			result.NewStreams++
		}
	}
	return result
}

// MergeSeries reconciles a freshly resolved series into the catalog with a
// per-(season, episode) union.
func (c *Catalog) MergeSeries(entry *SeriesEntry) MergeResult {
	existing := c.findSeries(entry)
	if existing == nil {
		added := &SeriesEntry{
			TitleInfo:     entry.TitleInfo,
			TotalSeasons:  entry.TotalSeasons,
			TotalEpisodes: entry.TotalEpisodes,
			Status:        entry.Status,
			SeasonDetails: entry.SeasonDetails,
			Seasons:       SeasonMap{},
		}
		result := MergeResult{Created: true}
		for season, eps := range entry.Seasons {
			for ep, streams := range eps {
				for _, s := range streams {
					if added.Seasons.Add(season, ep, s) {
						result.NewStreams++
					}
				}
			}
		}
		c.Series = append(c.Series, added)
		return result
	}

	existing.TitleInfo = refreshInfo(existing.TitleInfo, entry.TitleInfo)
	if entry.TotalSeasons != 0 {
		existing.TotalSeasons = entry.TotalSeasons
	}
	if entry.TotalEpisodes != 0 {
		existing.TotalEpisodes = entry.TotalEpisodes
	}
	if entry.Status != "" {
		existing.Status = entry.Status
	}
	if len(entry.SeasonDetails) != 0 {
		existing.SeasonDetails = entry.SeasonDetails
	}
	if existing.Seasons == nil {
		existing.Seasons = SeasonMap{}
	}

	var result MergeResult
	for season, eps := range entry.Seasons {
		for ep, streams := range eps {
			for _, s := range streams {
				if existing.Seasons.Add(season, ep, s) {
					result.NewStreams++
				}
			}
		}
	}
	return result
}

// refreshInfo overlays non-empty metadata from an incoming entry onto the
// stored one. Identity fields win from whichever side has them.
func refreshInfo(old, incoming TitleInfo) TitleInfo {
	out := incoming
	if out.ID == "" {
		out.ID = old.ID
	}
	if out.TMDBID == 0 {
		out.TMDBID = old.TMDBID
	}
	if out.Title == "" {
		out.Title = old.Title
	}
	if out.TitleEN == "" {
		out.TitleEN = old.TitleEN
	}
	if out.TitleCZ == "" {
		out.TitleCZ = old.TitleCZ
	}
	if out.Year == "" {
		out.Year = old.Year
	}
	if out.Description == "" {
		out.Description = old.Description
	}
	if out.DescriptionCZ == "" {
		out.DescriptionCZ = old.DescriptionCZ
	}
	if len(out.Genres) == 0 {
		out.Genres = old.Genres
	}
	if out.Rating == 0 {
		out.Rating = old.Rating
	}
	if out.VoteCount == 0 {
		out.VoteCount = old.VoteCount
	}
	if out.Poster == "" {
		out.Poster = old.Poster
	}
	if out.Backdrop == "" {
		out.Backdrop = old.Backdrop
	}
	return out
}

// RemoveMovie deletes movies matching a TMDB id or a case-insensitive title
// substring. Returns the number of entries removed. Explicit removal is the
// only deletion path; merges never drop entries.
func (c *Catalog) RemoveMovie(tmdbID int64, title string) int {
	kept := c.Movies[:0]
	removed := 0
	for _, m := range c.Movies {
		if matchesRemoval(m.TitleInfo, tmdbID, title) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	c.Movies = kept
	return removed
}

// RemoveSeries deletes series matching a TMDB id or a title substring.
func (c *Catalog) RemoveSeries(tmdbID int64, title string) int {
	kept := c.Series[:0]
	removed := 0
	for _, s := range c.Series {
		if matchesRemoval(s.TitleInfo, tmdbID, title) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	c.Series = kept
	return removed
}

func matchesRemoval(info TitleInfo, tmdbID int64, title string) bool {
	if tmdbID != 0 && info.TMDBID == tmdbID {
		return true
	}
	if title != "" && strings.Contains(strings.ToLower(info.Title), strings.ToLower(title)) {
		return true
	}
	return false
}
