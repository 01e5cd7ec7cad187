package resolver

import (
	"strconv"
	"strings"

	"github.com/posterwall/posterwall/internal/query"
)

// Scoring weights. The exact-match and substring bonuses stack, so a
// verbatim title hit scores 15 before the year and vote terms.
const (
	exactTitleBonus   = 10.0
	substringBonus    = 5.0
	exactYearBonus    = 8.0
	adjacentYearBonus = 4.0
)

// scoreCandidate ranks an enriched candidate against a parsed query. Scores
// are only comparable within one query's candidate set.
func scoreCandidate(movie *EnrichedMovie, q query.RawQuery) float64 {
	score := 0.0

	if movie.Title == q.Title {
		score += exactTitleBonus
	}
	if strings.Contains(strings.ToLower(movie.Title), strings.ToLower(q.Title)) {
		score += substringBonus
	}

	if q.Year > 0 {
		if year := releaseYear(movie.ReleaseDate); year > 0 {
			diff := year - q.Year
			if diff < 0 {
				diff = -diff
			}
			switch diff {
			case 0:
				score += exactYearBonus
			case 1:
				score += adjacentYearBonus
			}
		}
	}

	score += movie.VoteAverage / 2

	return score
}

// releaseYear extracts the year from an ISO release date, 0 when absent.
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
