package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posterwall/posterwall/internal/tmdb"
)

func lang(code string) *string {
	return &code
}

func TestSelectBestPoster_PrefersNeutral(t *testing.T) {
	posters := []tmdb.Poster{
		{FilePath: "/en.jpg", Language: lang("en"), VoteAverage: 8},
		{FilePath: "/neutral-low.jpg", Language: nil, VoteAverage: 6},
		{FilePath: "/neutral-high.jpg", Language: nil, VoteAverage: 7},
	}

	best := SelectBestPoster(posters)
	require.NotNil(t, best)
	// The best neutral poster wins even though a tagged one is rated higher.
	assert.Equal(t, "/neutral-high.jpg", best.FilePath)
}

func TestSelectBestPoster_FallsBackToTagged(t *testing.T) {
	posters := []tmdb.Poster{
		{FilePath: "/zh.jpg", Language: lang("zh"), VoteAverage: 5},
		{FilePath: "/en.jpg", Language: lang("en"), VoteAverage: 9},
	}

	best := SelectBestPoster(posters)
	require.NotNil(t, best)
	assert.Equal(t, "/en.jpg", best.FilePath)
}

func TestSelectBestPoster_EmptyLanguageTagIsNeutral(t *testing.T) {
	posters := []tmdb.Poster{
		{FilePath: "/en.jpg", Language: lang("en"), VoteAverage: 9},
		{FilePath: "/blank.jpg", Language: lang(""), VoteAverage: 2},
	}

	best := SelectBestPoster(posters)
	require.NotNil(t, best)
	assert.Equal(t, "/blank.jpg", best.FilePath)
}

func TestSelectBestPoster_TieKeepsFirstSeen(t *testing.T) {
	posters := []tmdb.Poster{
		{FilePath: "/first.jpg", Language: nil, VoteAverage: 7},
		{FilePath: "/second.jpg", Language: nil, VoteAverage: 7},
	}

	best := SelectBestPoster(posters)
	require.NotNil(t, best)
	assert.Equal(t, "/first.jpg", best.FilePath)
}

func TestSelectBestPoster_Empty(t *testing.T) {
	assert.Nil(t, SelectBestPoster(nil))
	assert.Nil(t, SelectBestPoster([]tmdb.Poster{}))
}
