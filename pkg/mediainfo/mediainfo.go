// Package mediainfo derives stream attributes from uploader-chosen filenames.
package mediainfo

// Quality represents the video quality tier of a stream.
// Tiers are ordered; a higher value is a higher tier.
type Quality int

const (
	QualityUnknown Quality = iota
	Quality480p
	Quality720p
	Quality1080p
	Quality4K
	Quality4KHDR
)

func (q Quality) String() string {
	switch q {
	case Quality480p:
		return "480p"
	case Quality720p:
		return "720p"
	case Quality1080p:
		return "1080p"
	case Quality4K:
		return "4K"
	case Quality4KHDR:
		return "4K HDR"
	default:
		return "unknown"
	}
}

// ParseQuality maps a quality label back to its tier.
func ParseQuality(s string) Quality {
	switch s {
	case "480p":
		return Quality480p
	case "720p":
		return Quality720p
	case "1080p":
		return Quality1080p
	case "4K":
		return Quality4K
	case "4K HDR":
		return Quality4KHDR
	default:
		return QualityUnknown
	}
}

// SourceClass represents the release source of a stream.
type SourceClass int

const (
	SourceUnknown SourceClass = iota
	SourceCAM
	SourceDVD
	SourceHDTV
	SourceWEB
	SourceBluRay
)

func (s SourceClass) String() string {
	switch s {
	case SourceCAM:
		return "CAM"
	case SourceDVD:
		return "DVD"
	case SourceHDTV:
		return "HDTV"
	case SourceWEB:
		return "WEB"
	case SourceBluRay:
		return "BluRay"
	default:
		return "unknown"
	}
}

// AudioCodec represents the audio codec family of a stream.
type AudioCodec int

const (
	AudioUnknown AudioCodec = iota
	AudioMP3
	AudioAAC
	AudioAC3
	AudioDTS
	AudioDTSHD
	AudioDTSHDMA
	AudioTrueHD
)

func (a AudioCodec) String() string {
	switch a {
	case AudioMP3:
		return "MP3"
	case AudioAAC:
		return "AAC"
	case AudioAC3:
		return "AC3"
	case AudioDTS:
		return "DTS"
	case AudioDTSHD:
		return "DTS-HD"
	case AudioDTSHDMA:
		return "DTS-HD MA"
	case AudioTrueHD:
		return "TrueHD/ATMOS"
	default:
		return ""
	}
}

// HighEnd reports whether the codec is a lossless or object-based format.
func (a AudioCodec) HighEnd() bool {
	return a == AudioDTSHDMA || a == AudioTrueHD
}

// Info contains attributes derived from a filename plus known byte size.
type Info struct {
	Quality       Quality
	Source        SourceClass
	AudioChannels string // "7.1", "5.1", "2.0" or empty
	AudioCodec    AudioCodec
	Languages     []string
	HDR           bool
	SizeMiB       float64
}

// HasLanguage reports whether lang is among the tagged languages.
func (i Info) HasLanguage(lang string) bool {
	for _, l := range i.Languages {
		if l == lang {
			return true
		}
	}
	return false
}
