package mediainfo

import (
	"regexp"
	"strings"
)

// Pattern tables are ordered; the first match wins. They are kept as explicit
// tables so the matching contract stays auditable.

var channelPatterns = []struct {
	re       *regexp.Regexp
	channels string
}{
	{regexp.MustCompile(`(?i)(7\.1|7-1)`), "7.1"},
	{regexp.MustCompile(`(?i)(5\.1|5-1)`), "5.1"},
	{regexp.MustCompile(`(?i)(2\.0|2-0|stereo)`), "2.0"},
}

var audioPatterns = []struct {
	re    *regexp.Regexp
	codec AudioCodec
}{
	{regexp.MustCompile(`(?i)(DTS-HD MA|DTSHDMA)`), AudioDTSHDMA},
	{regexp.MustCompile(`(?i)(TrueHD|ATMOS)`), AudioTrueHD},
	{regexp.MustCompile(`(?i)(DTS-HD|DTSHD)`), AudioDTSHD},
	{regexp.MustCompile(`(?i)DTS`), AudioDTS},
	{regexp.MustCompile(`(?i)(AC3|DD)`), AudioAC3},
	{regexp.MustCompile(`(?i)AAC`), AudioAAC},
	{regexp.MustCompile(`(?i)MP3`), AudioMP3},
}

var languagePatterns = []struct {
	re   *regexp.Regexp
	lang string
}{
	{regexp.MustCompile(`(?i)(CZ\.|CZSK|CZ-SK|Czech|cesky|česky)`), "Czech"},
	{regexp.MustCompile(`(?i)(SK\.|Slovak|slovensky)`), "Slovak"},
	{regexp.MustCompile(`(?i)(ENG\.|English|EN\.)`), "English"},
	{regexp.MustCompile(`(?i)(DE\.|German|GER\.|německy)`), "German"},
	{regexp.MustCompile(`(?i)(PL\.|Polish|polsky)`), "Polish"},
	{regexp.MustCompile(`(?i)(HU\.|Hungarian|maďarsky)`), "Hungarian"},
	{regexp.MustCompile(`(?i)(FR\.|French|francouzsky)`), "French"},
	{regexp.MustCompile(`(?i)(ES\.|Spanish|španělsky)`), "Spanish"},
	{regexp.MustCompile(`(?i)(multi|vícejazyčný)`), "Multi"},
	{regexp.MustCompile(`(?i)(dabing|dabingem|DAB)`), "Dubbed"},
}

var sourcePatterns = []struct {
	re     *regexp.Regexp
	source SourceClass
}{
	{regexp.MustCompile(`(?i)(BluRay|Blu-Ray|BDrip|BD-rip)`), SourceBluRay},
	{regexp.MustCompile(`(?i)(WEB-DL|WEB\.DL|WEBRip)`), SourceWEB},
	{regexp.MustCompile(`(?i)(HDTVRip|HDTV|TVrip)`), SourceHDTV},
	{regexp.MustCompile(`(?i)(DVDrip|DVD-Rip|DVD)`), SourceDVD},
	{regexp.MustCompile(`(?i)\b(CAM|TS|TELESYNC|TC)\b`), SourceCAM},
}

var hdrRegex = regexp.MustCompile(`(?i)\bHDR\b`)

func parseQualityTier(name string) Quality {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "2160p"), strings.Contains(lower, "4k"), strings.Contains(lower, "uhd"):
		return Quality4K
	case strings.Contains(lower, "1080p"):
		return Quality1080p
	case strings.Contains(lower, "720p"):
		return Quality720p
	case strings.Contains(lower, "480p"), strings.Contains(lower, "576p"):
		return Quality480p
	default:
		return QualityUnknown
	}
}

// Parse derives stream attributes from a filename and byte size.
func Parse(filename string, size int64) Info {
	info := Info{
		Quality: parseQualityTier(filename),
		SizeMiB: float64(size) / (1024 * 1024),
	}

	for _, p := range channelPatterns {
		if p.re.MatchString(filename) {
			info.AudioChannels = p.channels
			break
		}
	}

	for _, p := range audioPatterns {
		if p.re.MatchString(filename) {
			info.AudioCodec = p.codec
			break
		}
	}

	for _, p := range languagePatterns {
		if p.re.MatchString(filename) && !info.HasLanguage(p.lang) {
			info.Languages = append(info.Languages, p.lang)
		}
	}

	info.HDR = hdrRegex.MatchString(filename)
	if info.HDR && info.Quality == Quality4K {
		info.Quality = Quality4KHDR
	}

	for _, p := range sourcePatterns {
		if p.re.MatchString(filename) {
			info.Source = p.source
			break
		}
	}

	return info
}
