package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/posterwall/posterwall/internal/query"
)

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name  string
		movie EnrichedMovie
		q     query.RawQuery
		want  float64
	}{
		{
			name:  "exact match stacks with substring",
			movie: EnrichedMovie{Title: "英雄", VoteAverage: 7.0},
			q:     query.RawQuery{Title: "英雄"},
			want:  10 + 5 + 3.5,
		},
		{
			name:  "substring only",
			movie: EnrichedMovie{Title: "英雄本色", VoteAverage: 8.0},
			q:     query.RawQuery{Title: "英雄"},
			want:  5 + 4.0,
		},
		{
			name:  "case-insensitive substring",
			movie: EnrichedMovie{Title: "The Matrix Reloaded", VoteAverage: 7.0},
			q:     query.RawQuery{Title: "the matrix"},
			want:  5 + 3.5,
		},
		{
			name:  "case-sensitive exact miss",
			movie: EnrichedMovie{Title: "the matrix", VoteAverage: 0},
			q:     query.RawQuery{Title: "The Matrix"},
			want:  5,
		},
		{
			name:  "exact year hint",
			movie: EnrichedMovie{Title: "Hero", ReleaseDate: "2002-12-19", VoteAverage: 6.0},
			q:     query.RawQuery{Title: "Hero", Year: 2002},
			want:  10 + 5 + 8 + 3.0,
		},
		{
			name:  "adjacent year hint",
			movie: EnrichedMovie{Title: "Hero", ReleaseDate: "2003-01-10", VoteAverage: 6.0},
			q:     query.RawQuery{Title: "Hero", Year: 2002},
			want:  10 + 5 + 4 + 3.0,
		},
		{
			name:  "distant year scores nothing extra",
			movie: EnrichedMovie{Title: "Hero", ReleaseDate: "1992-01-10", VoteAverage: 6.0},
			q:     query.RawQuery{Title: "Hero", Year: 2002},
			want:  10 + 5 + 3.0,
		},
		{
			name:  "no hint ignores release year",
			movie: EnrichedMovie{Title: "Hero", ReleaseDate: "2002-12-19", VoteAverage: 6.0},
			q:     query.RawQuery{Title: "Hero"},
			want:  10 + 5 + 3.0,
		},
		{
			name:  "missing release date with hint",
			movie: EnrichedMovie{Title: "Hero", VoteAverage: 6.0},
			q:     query.RawQuery{Title: "Hero", Year: 2002},
			want:  10 + 5 + 3.0,
		},
		{
			name:  "unrelated title keeps vote term only",
			movie: EnrichedMovie{Title: "Solaris", VoteAverage: 10.0},
			q:     query.RawQuery{Title: "Hero"},
			want:  5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreCandidate(&tt.movie, tt.q), 1e-9)
		})
	}
}

// An exact title hit must outrank a substring-only hit even when the
// substring candidate carries the maximum vote average.
func TestScoreCandidate_ExactBeatsSubstring(t *testing.T) {
	q := query.RawQuery{Title: "英雄"}
	exact := EnrichedMovie{Title: "英雄", VoteAverage: 0}
	substring := EnrichedMovie{Title: "英雄本色", VoteAverage: 10}

	assert.Greater(t, scoreCandidate(&exact, q), scoreCandidate(&substring, q))
}

func TestReleaseYear(t *testing.T) {
	assert.Equal(t, 2002, releaseYear("2002-12-19"))
	assert.Equal(t, 0, releaseYear(""))
	assert.Equal(t, 0, releaseYear("20"))
	assert.Equal(t, 0, releaseYear("n/a"))
}
