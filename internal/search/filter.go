package search

import (
	"regexp"
	"strings"

	"github.com/pvondra/filmoteka/pkg/webshare"
)

// episodeMarkerRegex recognizes the usual season/episode notations.
var episodeMarkerRegex = regexp.MustCompile(`[Ss]\d{1,2}[Ee]\d{1,2}|\d{1,2}[Xx]\d{1,2}|season\s*\d|episode\s*\d|ep\.\d`)

// yearTokenRegex extracts 4-digit year tokens for the conflict check.
var yearTokenRegex = regexp.MustCompile(`\b(19[0-9]{2}|20[0-9]{2})\b`)

// junkPatterns is a denylist accumulated from observed false positives:
// music uploads, platform rips and episode-counter naming that happen to
// contain a movie title as a substring.
var junkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)rolling stones`),
	regexp.MustCompile(`(?i)bang tango`),
	regexp.MustCompile(`(?i)chris isaak`),
	regexp.MustCompile(`(?i)billy joel`),
	regexp.MustCompile(`(?i)jennifer rush`),
	regexp.MustCompile(`(?i)unus annus`),
	regexp.MustCompile(`(?i)youtube`),
	regexp.MustCompile(`(?i)ep\.\s*\d{1,3}`),
	regexp.MustCompile(`(?i)\d{1,3}\s*-\s*`),
	regexp.MustCompile(`(?i)#\d{1,3}`),
	regexp.MustCompile(`(?i)c\.c\.`),
}

// releaseTokens are filename words that describe the release rather than the
// title. They are discounted when judging whether a filename is about a
// different work than the target title.
var releaseTokens = map[string]struct{}{
	"480p": {}, "720p": {}, "1080p": {}, "2160p": {}, "4k": {}, "uhd": {}, "hdr": {},
	"bluray": {}, "brrip": {}, "bdrip": {}, "webrip": {}, "webdl": {}, "web": {},
	"hdtv": {}, "dvdrip": {}, "dvd": {}, "cam": {}, "remux": {}, "rip": {},
	"x264": {}, "x265": {}, "h264": {}, "h265": {}, "hevc": {}, "avc": {},
	"aac": {}, "ac3": {}, "dts": {}, "truehd": {}, "atmos": {}, "mp3": {},
	"cz": {}, "sk": {}, "en": {}, "czech": {}, "slovak": {}, "english": {},
	"dabing": {}, "dab": {}, "titulky": {}, "multi": {}, "dual": {},
	"mkv": {}, "mp4": {}, "avi": {}, "mov": {}, "wmv": {}, "webm": {}, "m4v": {},
	"extended": {}, "directors": {}, "cut": {}, "edition": {}, "remastered": {},
	"unrated": {}, "proper": {}, "repack": {}, "internal": {}, "limited": {}, "final": {},
}

// maxResidualWords bounds how many unexplained meaningful words a movie
// filename may carry. One covers a release-group tag; two or more usually
// means the file is about a related but different work, e.g. a making-of or
// documentary that embeds the title. Precision over recall.
const maxResidualWords = 2

// markerTokenRegex matches season/episode marker tokens. A stray marker on a
// year-pinned movie file is already handled by the marker guard and must not
// count against the residual-word bound.
var markerTokenRegex = regexp.MustCompile(`^(s\d{1,2}(e\d{1,2})?|e\d{1,2}|\d{1,2}x\d{1,2})$`)

func residualWordCount(filename, titleEN, titleCZ string) int {
	titleWords := make(map[string]struct{})
	for _, t := range []string{titleEN, titleCZ} {
		for _, w := range filenameTokenRegex.Split(strings.ToLower(t), -1) {
			titleWords[w] = struct{}{}
		}
	}

	count := 0
	for _, w := range filenameTokenRegex.Split(filename, -1) {
		if len(w) <= 2 {
			continue
		}
		if _, ok := titleWords[w]; ok {
			continue
		}
		if _, ok := releaseTokens[w]; ok {
			continue
		}
		if yearTokenRegex.MatchString(w) {
			continue
		}
		if markerTokenRegex.MatchString(w) {
			continue
		}
		count++
	}
	return count
}

func isJunk(filename string) bool {
	for _, p := range junkPatterns {
		if p.MatchString(filename) {
			return true
		}
	}
	return false
}

// hasConflictingYear reports whether the filename carries any 4-digit year
// token different from the target year. Boxsets and cross-matched uploads
// often name a different release.
func hasConflictingYear(filename, year string) bool {
	if year == "" {
		return false
	}
	for _, y := range yearTokenRegex.FindAllString(filename, -1) {
		if y != year {
			return true
		}
	}
	return false
}

// FilterMovie decides inclusion for movie candidates. It never mutates its
// input and never fails; total non-match yields an empty slice.
func FilterMovie(candidates []webshare.File, titleEN, titleCZ, year string) []webshare.File {
	var accepted []webshare.File
	for _, file := range candidates {
		filename := strings.ToLower(file.Name)

		matched := titleMatches(filename, titleEN, year, false)
		if !matched && titleCZ != "" {
			matched = titleMatches(filename, titleCZ, year, false)
		}
		if !matched {
			continue
		}

		// A single meaningful word is too common to trust without a year.
		mainTitle := titleCZ
		if mainTitle == "" {
			mainTitle = titleEN
		}
		if isSingleWordTitle(mainTitle) && year != "" && !strings.Contains(filename, year) {
			continue
		}

		// Episode-marked files are series uploads unless the year pins
		// them to this movie.
		if episodeMarkerRegex.MatchString(filename) {
			if !(year != "" && strings.Contains(filename, year)) {
				continue
			}
		}

		if hasConflictingYear(filename, year) {
			continue
		}

		if isJunk(filename) {
			continue
		}

		// Making-ofs and documentaries embed the title but carry extra
		// meaningful words of their own.
		if residualWordCount(filename, titleEN, titleCZ) >= maxResidualWords {
			continue
		}

		accepted = append(accepted, file)
	}
	return accepted
}

// matchesMovieCandidate applies the in-flight movie acceptance used while
// paginating: title match plus the episode-marker guard.
func matchesMovieCandidate(filename, title, year string, strict bool) bool {
	if !titleMatches(filename, title, year, strict) {
		return false
	}
	if episodeMarkerRegex.MatchString(filename) {
		return year != "" && strings.Contains(filename, year)
	}
	return true
}

// matchesSeriesCandidate accepts series files. Episode-marked files need
// only the loose title match, since uploaders rarely include the premiere
// year on per-episode files. A file without any episode marker is accepted
// only on a title match with the year present; unmarked weak hits are noise.
func matchesSeriesCandidate(filename, title, year string) bool {
	if episodeMarkerRegex.MatchString(filename) {
		return titleMatches(filename, title, "", false)
	}
	return year != "" && strings.Contains(filename, year) &&
		titleMatches(filename, title, year, false)
}
