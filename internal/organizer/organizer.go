// Package organizer parses season and episode numbers out of candidate
// filenames and groups the files into a catalog season map.
package organizer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/internal/search"
	"github.com/pvondra/filmoteka/pkg/webshare"
)

// episodePatterns is the ordered extraction table. The first pattern that
// matches a filename wins; each must capture season then episode.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Ss](\d{1,2})[Ee](\d{1,2})`),
	regexp.MustCompile(`(\d{1,2})[Xx](\d{1,2})`),
	regexp.MustCompile(`(?i)season[._\s]?(\d{1,2})[._\s]?episode[._\s]?(\d{1,2})`),
	regexp.MustCompile(`(?i)s(\d{1,2})[._\s]?e(\d{1,2})`),
}

// ExtractEpisode parses (season, episode) from a filename. Files matching no
// pattern cannot be organized and report ok=false; they are never defaulted
// into season 1.
func ExtractEpisode(filename string) (season, episode int, ok bool) {
	for _, pattern := range episodePatterns {
		m := pattern.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return season, episode, true
	}
	return 0, 0, false
}

// Organize groups candidate files by season and episode, merging into a copy
// of existing. It never removes anything already present.
//
// A file is dropped when no pattern extracts an episode, when its filename
// fails the loose title match against both title languages, or when its
// (season, episode) slot was already filled earlier in the same batch.
// Overlapping queries return the same episode under several filenames; the
// per-batch slot dedup keeps the first.
func Organize(files []webshare.File, titleEN, titleCZ string, existing catalog.SeasonMap) catalog.SeasonMap {
	var seasons catalog.SeasonMap
	if existing != nil {
		seasons = existing.Clone()
	} else {
		seasons = catalog.SeasonMap{}
	}

	seenSlots := make(map[string]struct{})

	for _, file := range files {
		season, episode, ok := ExtractEpisode(file.Name)
		if !ok {
			continue
		}

		slot := fmt.Sprintf("S%02dE%02d", season, episode)
		if _, dup := seenSlots[slot]; dup {
			continue
		}

		if !search.TitleMatchesLoose(file.Name, titleEN) {
			if titleCZ == "" || !search.TitleMatchesLoose(file.Name, titleCZ) {
				continue
			}
		}

		added := seasons.Add(season, episode, catalog.StreamRecord{
			Ident:    file.Ident,
			Filename: file.Name,
			Size:     file.Size,
		})
		if added {
			seenSlots[slot] = struct{}{}
		}
	}

	return seasons
}
