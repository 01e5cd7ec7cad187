// Package resolver turns free-text title input into enriched movie matches.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/posterwall/posterwall/internal/query"
	"github.com/posterwall/posterwall/internal/tmdb"
)

// ErrAllTitlesFailed is returned when every requested title's resolution
// ended in a provider error.
var ErrAllTitlesFailed = errors.New("all title resolutions failed")

const (
	// enrichLimit bounds how many raw search hits are enriched and scored
	// per title. The provider's native ordering is assumed to put the
	// plausible matches near the top.
	enrichLimit = 5

	thumbnailSize = "w500"
	fullSize      = "original"
)

// Service resolves each input title to its best-matching enriched movie.
type Service struct {
	provider Provider
	posters  *posterCache
	logger   zerolog.Logger
}

// NewService creates a new resolver service.
func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		posters:  newPosterCache(),
		logger:   logger.With().Str("component", "resolver").Logger(),
	}
}

// titleResult is the tagged outcome of a single title's resolution branch.
// movie is nil for a skipped segment or a legitimate zero-hit search.
type titleResult struct {
	segment   string
	attempted bool
	movie     *EnrichedMovie
	err       error
}

// ResolveAll resolves every title segment concurrently and returns the
// winners. Failed and empty segments are dropped, not replaced with
// placeholders; output order is not guaranteed to match input order.
//
// A single title's failure never cancels its siblings. The call fails only
// when every attempted title ended in a provider error.
func (s *Service) ResolveAll(ctx context.Context, segments []string) ([]EnrichedMovie, error) {
	if len(segments) == 0 {
		return []EnrichedMovie{}, nil
	}

	var wg sync.WaitGroup
	results := make(chan titleResult, len(segments))

	for _, segment := range segments {
		wg.Add(1)
		go func(segment string) {
			defer wg.Done()
			results <- s.resolveTitle(ctx, segment)
		}(segment)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	movies := make([]EnrichedMovie, 0, len(segments))
	attempted := 0
	failed := 0
	var firstErr error

	for result := range results {
		if result.attempted {
			attempted++
		}
		if result.err != nil {
			failed++
			if firstErr == nil {
				firstErr = result.err
			}
			s.logger.Warn().
				Err(result.err).
				Str("title", result.segment).
				Msg("Title resolution failed")
			continue
		}
		if result.movie != nil {
			movies = append(movies, *result.movie)
		}
	}

	if attempted > 0 && failed == attempted {
		if errors.Is(firstErr, context.Canceled) {
			return nil, firstErr
		}
		return nil, fmt.Errorf("%w: %v", ErrAllTitlesFailed, firstErr)
	}

	s.logger.Info().
		Int("requested", len(segments)).
		Int("resolved", len(movies)).
		Int("failed", failed).
		Msg("Resolution complete")

	return movies, nil
}

// resolveTitle runs the full pipeline for one segment: parse, search,
// enrich the top hits, score, and keep the winner.
func (s *Service) resolveTitle(ctx context.Context, segment string) titleResult {
	q := query.Parse(segment)
	if q.Title == "" {
		s.logger.Debug().Str("segment", segment).Msg("Skipping segment without a title")
		return titleResult{segment: segment}
	}

	hits, err := s.provider.SearchMovies(ctx, q.Title, q.Year)
	if err != nil {
		return titleResult{segment: segment, attempted: true, err: fmt.Errorf("search %q: %w", q.Title, err)}
	}
	if len(hits) == 0 {
		s.logger.Debug().Str("title", q.Title).Msg("No search results")
		return titleResult{segment: segment, attempted: true}
	}

	if len(hits) > enrichLimit {
		hits = hits[:enrichLimit]
	}

	enriched := make([]*EnrichedMovie, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		g.Go(func() error {
			movie, err := s.enrich(gctx, hit)
			if err != nil {
				return err
			}
			enriched[i] = movie
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return titleResult{segment: segment, attempted: true, err: fmt.Errorf("enrich %q: %w", q.Title, err)}
	}

	// Strictly-greater comparison keeps the first-seen candidate on ties;
	// provider order encodes its own relevance signal.
	best := enriched[0]
	bestScore := scoreCandidate(best, q)
	for _, movie := range enriched[1:] {
		if score := scoreCandidate(movie, q); score > bestScore {
			best = movie
			bestScore = score
		}
	}

	s.logger.Debug().
		Str("title", q.Title).
		Str("matched", best.Title).
		Int("id", best.ID).
		Float64("score", bestScore).
		Msg("Resolved title")

	return titleResult{segment: segment, attempted: true, movie: best}
}

// enrich merges four independent provider lookups into one movie record.
func (s *Service) enrich(ctx context.Context, hit tmdb.MovieResult) (*EnrichedMovie, error) {
	movie := &EnrichedMovie{
		ID:            hit.ID,
		Title:         hit.Title,
		OriginalTitle: hit.OriginalTitle,
		Overview:      hit.Overview,
		ReleaseDate:   hit.ReleaseDate,
		VoteAverage:   hit.VoteAverage,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		details, err := s.provider.GetMovie(gctx, hit.ID)
		if err != nil {
			return err
		}
		movie.Runtime = details.Runtime
		movie.Genres = make([]string, len(details.Genres))
		for i, genre := range details.Genres {
			movie.Genres[i] = genre.Name
		}
		movie.ProductionCountries = make([]string, len(details.ProductionCountries))
		for i, country := range details.ProductionCountries {
			movie.ProductionCountries[i] = country.Name
		}
		return nil
	})

	g.Go(func() error {
		credits, err := s.provider.GetCredits(gctx, hit.ID)
		if err != nil {
			return err
		}
		movie.Directors = credits.Directors
		movie.Writers = credits.Writers
		movie.Cast = credits.Cast
		return nil
	})

	g.Go(func() error {
		titles, err := s.provider.GetAlternativeTitles(gctx, hit.ID)
		if err != nil {
			return err
		}
		movie.AlternativeTitles = titles
		return nil
	})

	g.Go(func() error {
		urls, err := s.bestPoster(gctx, hit.ID)
		if err != nil {
			return err
		}
		movie.BestPoster = urls
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return movie, nil
}

// bestPoster resolves the preferred poster for a movie, consulting the
// session cache before issuing a redundant images lookup.
func (s *Service) bestPoster(ctx context.Context, movieID int) (*PosterURLs, error) {
	if urls, ok := s.posters.Get(movieID); ok {
		return urls, nil
	}

	posters, err := s.provider.GetImages(ctx, movieID)
	if err != nil {
		return nil, err
	}

	var urls *PosterURLs
	if best := SelectBestPoster(posters); best != nil {
		urls = &PosterURLs{
			Thumbnail: s.provider.ImageURL(best.FilePath, thumbnailSize),
			Full:      s.provider.ImageURL(best.FilePath, fullSize),
		}
	}

	s.posters.Set(movieID, urls)
	return urls, nil
}
