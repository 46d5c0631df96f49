package mediainfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQualityTiers(t *testing.T) {
	tests := []struct {
		filename string
		want     Quality
	}{
		{"The.Matrix.1999.1080p.BluRay.mkv", Quality1080p},
		{"Movie.2024.2160p.WEB-DL.mkv", Quality4K},
		{"Movie.2024.4K.UHD.mkv", Quality4K},
		{"Show.S01E01.720p.HDTV.mkv", Quality720p},
		{"Old.Film.480p.DVDrip.avi", Quality480p},
		{"Nameless.File.mkv", QualityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.filename, 0).Quality)
		})
	}
}

func TestParseHDRPromotesQuality(t *testing.T) {
	info := Parse("Movie.2023.2160p.HDR.WEB-DL.mkv", 0)
	assert.True(t, info.HDR)
	assert.Equal(t, Quality4KHDR, info.Quality)

	// HDR on a lower tier stays at its tier
	info = Parse("Movie.2023.1080p.HDR.WEB-DL.mkv", 0)
	assert.True(t, info.HDR)
	assert.Equal(t, Quality1080p, info.Quality)
}

func TestParseAudio(t *testing.T) {
	tests := []struct {
		filename string
		codec    AudioCodec
		channels string
	}{
		{"Movie.2020.1080p.BluRay.DTS-HD MA.7.1.mkv", AudioDTSHDMA, "7.1"},
		{"Movie.2020.1080p.TrueHD.5.1.mkv", AudioTrueHD, "5.1"},
		{"Movie.2020.720p.AC3.2.0.mkv", AudioAC3, "2.0"},
		{"Movie.2020.720p.AAC.mkv", AudioAAC, ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			info := Parse(tt.filename, 0)
			assert.Equal(t, tt.codec, info.AudioCodec)
			assert.Equal(t, tt.channels, info.AudioChannels)
		})
	}

	assert.True(t, AudioDTSHDMA.HighEnd())
	assert.True(t, AudioTrueHD.HighEnd())
	assert.False(t, AudioAAC.HighEnd())
}

func TestParseLanguages(t *testing.T) {
	info := Parse("Film.2021.1080p.CZ.dabing.mkv", 0)
	assert.True(t, info.HasLanguage("Czech"))
	assert.True(t, info.HasLanguage("Dubbed"))
	assert.False(t, info.HasLanguage("English"))

	info = Parse("Movie.2021.1080p.English.mkv", 0)
	assert.Equal(t, []string{"English"}, info.Languages)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		filename string
		want     SourceClass
	}{
		{"Movie.2020.1080p.BluRay.x264.mkv", SourceBluRay},
		{"Movie.2020.1080p.WEB-DL.mkv", SourceWEB},
		{"Show.S01E01.HDTV.mkv", SourceHDTV},
		{"Old.Movie.DVDrip.avi", SourceDVD},
		{"Movie.2024.CAM.mp4", SourceCAM},
		{"Movie.2024.1080p.mkv", SourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.filename, 0).Source)
		})
	}
}

func TestParseSize(t *testing.T) {
	info := Parse("Movie.mkv", 2048*1024*1024)
	assert.InDelta(t, 2048, info.SizeMiB, 0.01)
}
