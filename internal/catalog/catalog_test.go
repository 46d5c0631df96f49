package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitleKey(t *testing.T) {
	key := NewTitleKey("The Matrix", "1999")
	assert.Len(t, string(key), 8)
	assert.Equal(t, key, NewTitleKey("the matrix", "1999"), "key is case-insensitive")
	assert.Equal(t, key, NewTitleKey("  The Matrix", "1999"), "leading whitespace is ignored")
	assert.NotEqual(t, key, NewTitleKey("The Matrix", "2003"))
	assert.NotEqual(t, key, NewTitleKey("The Matrix Reloaded", "1999"))
}

func movieFixture(tmdbID int64, idents ...string) *MovieEntry {
	m := &MovieEntry{
		TitleInfo: TitleInfo{
			ID:     NewTitleKey("The Matrix", "1999"),
			TMDBID: tmdbID,
			Title:  "The Matrix",
			Year:   "1999",
		},
	}
	for _, id := range idents {
		m.Streams = append(m.Streams, StreamRecord{Ident: id, Filename: id + ".mkv", Size: 1000})
	}
	return m
}

func TestMergeMovie_CreatesAndUnions(t *testing.T) {
	cat := NewCatalog()

	res := cat.MergeMovie(movieFixture(603, "a", "b"))
	assert.True(t, res.Created)
	assert.Equal(t, 2, res.NewStreams)
	require.Len(t, cat.Movies, 1)

	// Overlapping resolve: only the new stream lands.
	res = cat.MergeMovie(movieFixture(603, "b", "c"))
	assert.False(t, res.Created)
	assert.Equal(t, 1, res.NewStreams)
	require.Len(t, cat.Movies, 1)
	assert.Len(t, cat.Movies[0].Streams, 3)
}

func TestMergeMovie_Idempotent(t *testing.T) {
	cat := NewCatalog()
	cat.MergeMovie(movieFixture(603, "a", "b"))

	res := cat.MergeMovie(movieFixture(603, "a", "b"))
	assert.False(t, res.Created)
	assert.Zero(t, res.NewStreams)
	assert.Len(t, cat.Movies[0].Streams, 2)
}

func TestMergeMovie_TMDBIDWinsOverTitleKey(t *testing.T) {
	cat := NewCatalog()

	manual := movieFixture(0, "a")
	cat.MergeMovie(manual)

	// Same title resolved later with an external id: matched by title key
	// fallback would create a duplicate, so the entries stay distinct only
	// when identities genuinely differ.
	other := movieFixture(603, "b")
	cat.MergeMovie(other)
	assert.Len(t, cat.Movies, 2, "external id entry does not collapse into the manual one")

	// A second external-id resolve merges into the external-id entry.
	cat.MergeMovie(movieFixture(603, "c"))
	assert.Len(t, cat.Movies, 2)
}

func TestMergeMovie_RefreshesMetadata(t *testing.T) {
	cat := NewCatalog()
	cat.MergeMovie(movieFixture(603, "a"))

	update := movieFixture(603)
	update.TitleCZ = "Matrix"
	update.Rating = 8.2
	cat.MergeMovie(update)

	assert.Equal(t, "Matrix", cat.Movies[0].TitleCZ)
	assert.Equal(t, 8.2, cat.Movies[0].Rating)
	assert.Len(t, cat.Movies[0].Streams, 1, "metadata refresh never drops streams")
}

func TestMergeMovie_SparseRefreshKeepsMetadata(t *testing.T) {
	cat := NewCatalog()

	rich := movieFixture(603, "a")
	rich.TitleCZ = "Matrix"
	rich.Description = "A hacker learns the truth."
	rich.DescriptionCZ = "Hacker poznává pravdu."
	rich.Genres = []string{"Action", "Sci-Fi"}
	rich.Rating = 8.2
	rich.VoteCount = 25000
	rich.Poster = "https://img.example/p.jpg"
	rich.Backdrop = "https://img.example/b.jpg"
	rich.Runtime = 136
	cat.MergeMovie(rich)

	// A listing-only record, as left behind when the detail fetch fails
	// mid-sweep, carries identity and title but nothing else.
	cat.MergeMovie(movieFixture(603, "b"))

	got := cat.MovieByTMDBID(603)
	require.NotNil(t, got)
	assert.Equal(t, "Matrix", got.TitleCZ)
	assert.Equal(t, "A hacker learns the truth.", got.Description)
	assert.Equal(t, "Hacker poznává pravdu.", got.DescriptionCZ)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, got.Genres)
	assert.Equal(t, 8.2, got.Rating)
	assert.Equal(t, 25000, got.VoteCount)
	assert.Equal(t, "https://img.example/p.jpg", got.Poster)
	assert.Equal(t, "https://img.example/b.jpg", got.Backdrop)
	assert.Equal(t, 136, got.Runtime)
	assert.Len(t, got.Streams, 2)
}

func seriesFixture(tmdbID int64) *SeriesEntry {
	return &SeriesEntry{
		TitleInfo: TitleInfo{
			ID:     NewTitleKey("Dark", "2017"),
			TMDBID: tmdbID,
			Title:  "Dark",
			Year:   "2017",
		},
		Seasons: SeasonMap{},
	}
}

func TestMergeSeries_UnionsPerEpisode(t *testing.T) {
	cat := NewCatalog()

	first := seriesFixture(70523)
	first.Seasons.Add(1, 1, StreamRecord{Ident: "s1e1-a"})
	first.Seasons.Add(1, 2, StreamRecord{Ident: "s1e2-a"})
	res := cat.MergeSeries(first)
	assert.True(t, res.Created)
	assert.Equal(t, 2, res.NewStreams)

	second := seriesFixture(70523)
	second.Seasons.Add(1, 1, StreamRecord{Ident: "s1e1-a"})
	second.Seasons.Add(1, 1, StreamRecord{Ident: "s1e1-b"})
	second.Seasons.Add(2, 1, StreamRecord{Ident: "s2e1-a"})
	res = cat.MergeSeries(second)
	assert.False(t, res.Created)
	assert.Equal(t, 2, res.NewStreams)

	series := cat.Series[0]
	assert.Len(t, series.Seasons[1][1], 2)
	assert.Len(t, series.Seasons[1][2], 1)
	assert.Len(t, series.Seasons[2][1], 1)
	assert.Equal(t, 3, series.Seasons.Episodes())
	assert.Equal(t, 4, series.Seasons.Files())
}

func TestMergeSeries_Idempotent(t *testing.T) {
	cat := NewCatalog()

	build := func() *SeriesEntry {
		s := seriesFixture(70523)
		s.Seasons.Add(1, 1, StreamRecord{Ident: "x"})
		return s
	}
	cat.MergeSeries(build())
	res := cat.MergeSeries(build())
	assert.False(t, res.Created)
	assert.Zero(t, res.NewStreams)
}

func TestMergeSeries_SeasonDetails(t *testing.T) {
	cat := NewCatalog()

	first := seriesFixture(70523)
	first.SeasonDetails = []SeasonDetail{
		{Season: 1, Episodes: []EpisodeDetail{
			{Episode: 1, Name: "Secrets", AirDate: "2017-12-01"},
		}},
	}
	cat.MergeSeries(first)

	// A refresh without season listings keeps the stored ones.
	cat.MergeSeries(seriesFixture(70523))
	require.Len(t, cat.Series[0].SeasonDetails, 1)
	assert.Equal(t, "Secrets", cat.Series[0].SeasonDetails[0].Episodes[0].Name)

	// A refresh with listings replaces them wholesale.
	update := seriesFixture(70523)
	update.SeasonDetails = []SeasonDetail{
		{Season: 1, Episodes: []EpisodeDetail{
			{Episode: 1, Name: "Secrets"},
			{Episode: 2, Name: "Lies"},
		}},
	}
	cat.MergeSeries(update)
	require.Len(t, cat.Series[0].SeasonDetails, 1)
	assert.Len(t, cat.Series[0].SeasonDetails[0].Episodes, 2)
}

func TestRemoveMovie(t *testing.T) {
	cat := NewCatalog()
	cat.MergeMovie(movieFixture(603, "a"))

	other := movieFixture(604, "b")
	other.Title = "Heat"
	other.ID = NewTitleKey("Heat", "1995")
	cat.MergeMovie(other)

	assert.Equal(t, 1, cat.RemoveMovie(603, ""))
	assert.Len(t, cat.Movies, 1)

	assert.Equal(t, 1, cat.RemoveMovie(0, "heat"), "title match is case-insensitive")
	assert.Empty(t, cat.Movies)

	assert.Zero(t, cat.RemoveMovie(999, "nothing"))
}

func TestSeasonMapClone(t *testing.T) {
	sm := SeasonMap{}
	sm.Add(1, 1, StreamRecord{Ident: "a"})

	clone := sm.Clone()
	clone.Add(1, 1, StreamRecord{Ident: "b"})
	assert.Len(t, sm[1][1], 1, "clone must not share backing storage")
	assert.Len(t, clone[1][1], 2)
}
