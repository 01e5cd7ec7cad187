package resolver

import (
	"context"

	"github.com/posterwall/posterwall/internal/tmdb"
)

// Provider is the metadata provider surface the resolver consumes.
type Provider interface {
	SearchMovies(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error)
	GetMovie(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	GetCredits(ctx context.Context, id int) (*tmdb.NormalizedCredits, error)
	GetAlternativeTitles(ctx context.Context, id int) ([]tmdb.AlternativeTitle, error)
	GetImages(ctx context.Context, id int) ([]tmdb.Poster, error)
	ImageURL(path, size string) string
}

// PosterURLs holds the resolved poster image URLs for a movie.
type PosterURLs struct {
	// Thumbnail is the w500 rendition used in the gallery grid.
	Thumbnail string `json:"thumbnail"`
	// Full is the original rendition used for the zoomed preview.
	Full string `json:"full"`
}

// EnrichedMovie is a search candidate merged with credits, alternative
// titles, and poster data. BestPoster is nil when the movie has no posters;
// consumers fall back to a placeholder.
type EnrichedMovie struct {
	ID                  int                      `json:"id"`
	Title               string                   `json:"title"`
	OriginalTitle       string                   `json:"original_title"`
	Overview            string                   `json:"overview"`
	ReleaseDate         string                   `json:"release_date"`
	VoteAverage         float64                  `json:"vote_average"`
	Genres              []string                 `json:"genres"`
	Runtime             int                      `json:"runtime"`
	ProductionCountries []string                 `json:"production_countries"`
	Directors           []tmdb.Credit            `json:"directors"`
	Writers             []tmdb.Credit            `json:"writers"`
	Cast                []tmdb.Credit            `json:"cast"`
	AlternativeTitles   []tmdb.AlternativeTitle  `json:"alternative_titles,omitempty"`
	BestPoster          *PosterURLs              `json:"best_poster,omitempty"`
}
