// Package ranker scores a title's resolved streams against viewer
// preferences and picks a default playback candidate. Pure functions, no
// I/O; identical inputs always produce identical output.
package ranker

import (
	"sort"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/pkg/mediainfo"
)

// Preferences are the viewer's playback constraints.
type Preferences struct {
	PreferredLanguage string // "Any" disables the language preference
	MaxQuality        mediainfo.Quality
	TargetQuality     mediainfo.Quality
	PreferHDR         bool
	MinAudioChannels  string
}

// Scoring weights. The relative ordering is the contract: quality proximity
// dominates, then language, then HDR and audio, then source, then size.
const (
	scoreQualityExact  = 100
	scoreQualityClose  = 80
	scoreQualityNear   = 60
	scoreQualityFarBase = 40
	scoreQualityFarStep = 5
	penaltyOverMax     = 30

	scorePreferredLanguage = 150
	scoreLocalLanguage     = 50
	scoreOtherLanguage     = 20
	scoreAnyLanguage       = 30

	scoreHDRWanted   = 25
	penaltyHDRUnwanted = 10

	scoreMultichannel  = 30
	scoreMinChannels   = 15
	scoreHighEndCodec  = 20

	scoreSourceBluRay = 20
	scoreSourceWEB    = 15
	scoreSourceHDTV   = 10

	sizeScoreCap     = 20
	sizeScoreDivisor = 50
	sizeFloorMiB     = 100

	// A best pick below this score is not trusted for autoplay.
	acceptanceFloor = 50
)

// RankedStream pairs a stream with its derived attributes and score.
type RankedStream struct {
	Stream catalog.StreamRecord
	Info   mediainfo.Info
	Score  float64
}

func scoreStream(info mediainfo.Info, prefs Preferences) float64 {
	var score float64

	// Quality proximity to the target tier dominates everything else.
	quality := info.Quality
	if quality <= prefs.MaxQuality {
		diff := int(quality) - int(prefs.TargetQuality)
		if diff < 0 {
			diff = -diff
		}
		switch diff {
		case 0:
			score += scoreQualityExact
		case 1:
			score += scoreQualityClose
		case 2:
			score += scoreQualityNear
		default:
			score += float64(scoreQualityFarBase - diff*scoreQualityFarStep)
		}
	} else {
		score -= penaltyOverMax
	}

	if prefs.PreferredLanguage != "Any" {
		switch {
		case info.HasLanguage(prefs.PreferredLanguage):
			score += scorePreferredLanguage
		case len(info.Languages) > 0:
			if info.HasLanguage("Czech") || info.HasLanguage("Slovak") {
				score += scoreLocalLanguage
			} else {
				score += scoreOtherLanguage
			}
		}
	} else if len(info.Languages) > 0 {
		score += scoreAnyLanguage
	}

	if info.HDR && prefs.PreferHDR {
		score += scoreHDRWanted
	} else if info.HDR && !prefs.PreferHDR {
		score -= penaltyHDRUnwanted
	}

	if info.AudioChannels != "" {
		switch {
		case info.AudioChannels == "7.1" || info.AudioChannels == "5.1":
			score += scoreMultichannel
		case info.AudioChannels == prefs.MinAudioChannels:
			score += scoreMinChannels
		case info.AudioCodec.HighEnd():
			score += scoreHighEndCodec
		}
	}

	switch info.Source {
	case mediainfo.SourceBluRay:
		score += scoreSourceBluRay
	case mediainfo.SourceWEB:
		score += scoreSourceWEB
	case mediainfo.SourceHDTV:
		score += scoreSourceHDTV
	}

	// Larger files usually carry better encodes, capped so size can never
	// outweigh quality or language.
	if info.SizeMiB > sizeFloorMiB {
		sizeScore := info.SizeMiB / sizeScoreDivisor
		if sizeScore > sizeScoreCap {
			sizeScore = sizeScoreCap
		}
		score += sizeScore
	}

	return score
}

// Rank scores all streams and returns them ordered best first. Ties keep the
// original input order.
func Rank(streams []catalog.StreamRecord, prefs Preferences) []RankedStream {
	ranked := make([]RankedStream, len(streams))
	for i, stream := range streams {
		info := mediainfo.Parse(stream.Filename, stream.Size)
		ranked[i] = RankedStream{
			Stream: stream,
			Info:   info,
			Score:  scoreStream(info, prefs),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// SelectBest picks the default playback stream. The top-ranked stream wins
// when it clears the acceptance floor; otherwise the first stream tagged
// with the preferred language; otherwise the first stream in input order.
func SelectBest(streams []catalog.StreamRecord, prefs Preferences) (catalog.StreamRecord, bool) {
	if len(streams) == 0 {
		return catalog.StreamRecord{}, false
	}

	ranked := Rank(streams, prefs)
	if ranked[0].Score >= acceptanceFloor {
		return ranked[0].Stream, true
	}

	if prefs.PreferredLanguage != "Any" {
		for _, r := range ranked {
			if r.Info.HasLanguage(prefs.PreferredLanguage) {
				return r.Stream, true
			}
		}
	}

	return streams[0], true
}
