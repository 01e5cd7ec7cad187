package resolver

import "github.com/posterwall/posterwall/internal/tmdb"

// SelectBestPoster picks the preferred poster variant from a movie's image
// set. Posters without a language tag are typically textless and cleaner
// for a gallery wall, so the best-voted neutral poster wins whenever any
// neutral poster exists; otherwise the best-voted poster overall is used.
// Ties keep the first-seen poster. Returns nil for an empty set.
func SelectBestPoster(posters []tmdb.Poster) *tmdb.Poster {
	if len(posters) == 0 {
		return nil
	}

	var bestNeutral, bestAny *tmdb.Poster
	for i := range posters {
		p := &posters[i]
		if bestAny == nil || p.VoteAverage > bestAny.VoteAverage {
			bestAny = p
		}
		if p.Neutral() && (bestNeutral == nil || p.VoteAverage > bestNeutral.VoteAverage) {
			bestNeutral = p
		}
	}

	if bestNeutral != nil {
		return bestNeutral
	}
	return bestAny
}
