package organizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvondra/filmoteka/internal/catalog"
	"github.com/pvondra/filmoteka/pkg/webshare"
)

func TestExtractEpisode(t *testing.T) {
	tests := []struct {
		filename string
		season   int
		episode  int
		ok       bool
	}{
		{"Show.Name.S02E05.1080p.mkv", 2, 5, true},
		{"Show Name 2x05.mkv", 2, 5, true},
		{"Show.Name.season 1 episode 3.avi", 1, 3, true},
		{"show.name.s03.e07.720p.mkv", 3, 7, true},
		{"Show.Name.1080p.BluRay.mkv", 0, 0, false},
		{"Show Name 1999.mkv", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			season, episode, ok := ExtractEpisode(tt.filename)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.season, season)
				assert.Equal(t, tt.episode, episode)
			}
		})
	}
}

func TestOrganize(t *testing.T) {
	files := []webshare.File{
		{Ident: "a", Name: "Dark.S01E01.1080p.mkv", Size: 2000},
		{Ident: "b", Name: "Dark.S01E02.1080p.mkv", Size: 2000},
		{Ident: "c", Name: "Dark 2x01 CZ.mkv", Size: 1500},
		{Ident: "nomark", Name: "Dark.Complete.1080p.mkv", Size: 9000},
		{Ident: "wrong", Name: "Stranger.Things.S01E01.mkv", Size: 2000},
	}

	seasons := Organize(files, "Dark", "", nil)

	require.Len(t, seasons, 2)
	assert.Len(t, seasons[1][1], 1)
	assert.Len(t, seasons[1][2], 1)
	assert.Len(t, seasons[2][1], 1)
	assert.NotContains(t, seasons, 0, "unmarked files are dropped, not defaulted")
}

func TestOrganize_BatchSlotDedup(t *testing.T) {
	// Overlapping queries return the same episode under two filenames.
	files := []webshare.File{
		{Ident: "a", Name: "Dark.S01E01.1080p.mkv", Size: 2000},
		{Ident: "b", Name: "Dark S01E01 CZ dabing.mkv", Size: 1500},
	}

	seasons := Organize(files, "Dark", "", nil)
	assert.Len(t, seasons[1][1], 1, "only the first file fills a slot within one batch")
	assert.Equal(t, "a", seasons[1][1][0].Ident)
}

func TestOrganize_MergesWithExisting(t *testing.T) {
	existing := catalog.SeasonMap{}
	existing.Add(1, 1, catalog.StreamRecord{Ident: "old", Filename: "Dark.S01E01.720p.mkv", Size: 1000})

	files := []webshare.File{
		{Ident: "old", Name: "Dark.S01E01.720p.mkv", Size: 1000},
		{Ident: "new", Name: "Dark.S01E05.1080p.mkv", Size: 2000},
	}

	seasons := Organize(files, "Dark", "", existing)

	assert.Len(t, seasons[1][1], 1, "known ident is not duplicated")
	assert.Len(t, seasons[1][5], 1)

	// The input map is never mutated.
	assert.NotContains(t, existing[1], 5)
}

func TestOrganize_LocalizedTitleGate(t *testing.T) {
	files := []webshare.File{
		{Ident: "cz", Name: "Pelisky.S01E01.CZ.mkv", Size: 1500},
	}

	seasons := Organize(files, "Cosy Dens", "Pelisky", nil)
	require.Len(t, seasons[1][1], 1)

	seasons = Organize(files, "Cosy Dens", "", nil)
	assert.Empty(t, seasons, "file matching neither title is dropped")
}
