package tmdb

// SearchMoviesResponse is the response from TMDB movie search.
type SearchMoviesResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie from TMDB search results.
type MovieResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    *string `json:"poster_path"`
	BackdropPath  *string `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	Adult         bool    `json:"adult"`
	GenreIDs      []int   `json:"genre_ids"`
}

// MovieDetails is the detailed movie info from TMDB.
type MovieDetails struct {
	ID                  int                 `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	Overview            string              `json:"overview"`
	ReleaseDate         string              `json:"release_date"`
	PosterPath          *string             `json:"poster_path"`
	BackdropPath        *string             `json:"backdrop_path"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Runtime             int                 `json:"runtime"`
	OriginalLanguage    string              `json:"original_language"`
	Genres              []Genre             `json:"genres"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCountry represents a production country from TMDB movie details.
type ProductionCountry struct {
	Iso31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// CreditsResponse is the response from TMDB /movie/{id}/credits.
type CreditsResponse struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember represents a cast member from TMDB credits.
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember represents a crew member from TMDB credits.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// AlternativeTitlesResponse is the response from TMDB /movie/{id}/alternative_titles.
type AlternativeTitlesResponse struct {
	ID     int                `json:"id"`
	Titles []AlternativeTitle `json:"titles"`
}

// AlternativeTitle is a regional title variant for a movie.
type AlternativeTitle struct {
	Iso31661 string `json:"iso_3166_1"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

// ImagesResponse is the response from TMDB /movie/{id}/images.
type ImagesResponse struct {
	ID      int      `json:"id"`
	Posters []Poster `json:"posters"`
}

// Poster is a single poster descriptor from TMDB images. Language is nil
// for neutral (textless) posters.
type Poster struct {
	FilePath    string  `json:"file_path"`
	Language    *string `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// Neutral reports whether the poster carries no language tag.
func (p Poster) Neutral() bool {
	return p.Language == nil || *p.Language == ""
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// Credit is a normalized credits entry (director, writer, or cast member).
type Credit struct {
	Name      string `json:"name"`
	Job       string `json:"job,omitempty"`
	Character string `json:"character,omitempty"`
}

// NormalizedCredits is the credits subset the resolver cares about. Cast is
// truncated to the first four entries in provider order.
type NormalizedCredits struct {
	Directors []Credit `json:"directors"`
	Writers   []Credit `json:"writers"`
	Cast      []Credit `json:"cast"`
}
