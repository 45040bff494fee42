package tmdb

// Wire shapes of the TMDB v3 responses we read. Fields TMDB may send as
// null are pointers.

type genreDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type companyDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	LogoPath *string `json:"logo_path"`
}

type movieDTO struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	OriginalTitle       *string      `json:"original_title"`
	Overview            *string      `json:"overview"`
	PosterPath          *string      `json:"poster_path"`
	BackdropPath        *string      `json:"backdrop_path"`
	ReleaseDate         *string      `json:"release_date"`
	Runtime             *int         `json:"runtime"`
	VoteAverage         *float64     `json:"vote_average"`
	VoteCount           *int64       `json:"vote_count"`
	Genres              []genreDTO   `json:"genres"`
	ProductionCompanies []companyDTO `json:"production_companies"`
}

type crewDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type movieCreditsDTO struct {
	ID   int64     `json:"id"`
	Crew []crewDTO `json:"crew"`
}

type personDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ProfilePath  *string `json:"profile_path"`
	Biography    *string `json:"biography"`
	Birthday     *string `json:"birthday"`
	PlaceOfBirth *string `json:"place_of_birth"`
}

// creditDTO is a movie in a person's credits or a discover/search result.
type creditDTO struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle *string  `json:"original_title"`
	Overview      *string  `json:"overview"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
	ReleaseDate   *string  `json:"release_date"`
	VoteAverage   *float64 `json:"vote_average"`
	VoteCount     *int64   `json:"vote_count"`
	GenreIDs      []int64  `json:"genre_ids"`
	Job           string   `json:"job"`
}

type personCreditsDTO struct {
	ID   int64       `json:"id"`
	Crew []creditDTO `json:"crew"`
}

type companyDetailsDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	LogoPath     *string `json:"logo_path"`
	Description  *string `json:"description"`
	Headquarters *string `json:"headquarters"`
	Homepage     *string `json:"homepage"`
}

type pageDTO struct {
	Page         int         `json:"page"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
	Results      []creditDTO `json:"results"`
}
