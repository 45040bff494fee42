package tmdb

import (
	"strings"
	"time"

	"filmpivot/internal/logging"
	"filmpivot/models"
)

const directorJob = "Director"

// releaseYear extracts the year from "YYYY-MM-DD" or a bare "YYYY". Other
// values starting with a standalone four digit year, such as "2010-1-5" or a
// full timestamp, yield that year. Anything else yields 0.
func releaseYear(date *string) int {
	if date == nil {
		return 0
	}
	value := strings.TrimSpace(*date)
	if value == "" {
		return 0
	}
	for _, layout := range []string{time.DateOnly, "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Year()
		}
	}
	return leadingYear(value)
}

func leadingYear(value string) int {
	if len(value) < 4 || (len(value) > 4 && isDigit(value[4])) {
		return 0
	}
	year := 0
	for i := 0; i < 4; i++ {
		if !isDigit(value[i]) {
			return 0
		}
		year = year*10 + int(value[i]-'0')
	}
	return year
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// requestedID keys a record by the id it was requested under. A mismatching
// upstream id is logged.
func requestedID(kind string, requested, got int64) int64 {
	if got != requested {
		logging.Component("tmdb").Warn().
			Str("kind", kind).
			Int64("requested", requested).
			Int64("returned", got).
			Msg("upstream returned a different id")
	}
	return requested
}

// optional maps empty or whitespace-only strings to nil.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func normalizeMovie(m movieDTO, credits movieCreditsDTO) models.CachedMovie {
	out := models.CachedMovie{
		TMDBID:              m.ID,
		Title:               m.Title,
		OriginalTitle:       optional(m.OriginalTitle),
		Overview:            optional(m.Overview),
		PosterPath:          optional(m.PosterPath),
		BackdropPath:        optional(m.BackdropPath),
		ReleaseDate:         strings.TrimSpace(deref(m.ReleaseDate)),
		ReleaseYear:         releaseYear(m.ReleaseDate),
		Runtime:             m.Runtime,
		VoteAverage:         m.VoteAverage,
		VoteCount:           m.VoteCount,
		Genres:              make([]models.Genre, 0, len(m.Genres)),
		ProductionCompanies: make([]models.ProductionCompany, 0, len(m.ProductionCompanies)),
	}
	for _, g := range m.Genres {
		out.Genres = append(out.Genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	for _, c := range m.ProductionCompanies {
		out.ProductionCompanies = append(out.ProductionCompanies, models.ProductionCompany{
			ID:       c.ID,
			Name:     c.Name,
			LogoPath: optional(c.LogoPath),
		})
	}
	for _, crew := range credits.Crew {
		if crew.Job == directorJob {
			id, name := crew.ID, crew.Name
			out.DirectorID = &id
			out.DirectorName = &name
			break
		}
	}
	return out
}

func filmographyEntry(c creditDTO) models.FilmographyEntry {
	return models.FilmographyEntry{
		TMDBID:      c.ID,
		Title:       c.Title,
		ReleaseYear: releaseYear(c.ReleaseDate),
		PosterPath:  optional(c.PosterPath),
		VoteAverage: c.VoteAverage,
		VoteCount:   c.VoteCount,
		Job:         c.Job,
	}
}

func normalizePerson(p personDTO, credits personCreditsDTO) models.CachedDirector {
	out := models.CachedDirector{
		TMDBPersonID: p.ID,
		Name:         p.Name,
		ProfilePath:  optional(p.ProfilePath),
		Biography:    optional(p.Biography),
		Birthday:     optional(p.Birthday),
		PlaceOfBirth: optional(p.PlaceOfBirth),
		Filmography:  []models.FilmographyEntry{},
	}
	for _, c := range credits.Crew {
		if c.Job == directorJob {
			out.Filmography = append(out.Filmography, filmographyEntry(c))
		}
	}
	return out
}

func normalizeCompany(c companyDetailsDTO, movies []creditDTO) models.CachedStudio {
	out := models.CachedStudio{
		TMDBCompanyID: c.ID,
		Name:          c.Name,
		LogoPath:      optional(c.LogoPath),
		Description:   optional(c.Description),
		Headquarters:  optional(c.Headquarters),
		Homepage:      optional(c.Homepage),
		Filmography:   make([]models.FilmographyEntry, 0, len(movies)),
	}
	for _, m := range movies {
		entry := filmographyEntry(m)
		entry.Job = ""
		out.Filmography = append(out.Filmography, entry)
	}
	return out
}

func normalizeSearchPage(p pageDTO) models.MovieSearchPage {
	out := models.MovieSearchPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]models.MovieSearchResult, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		genreIDs := r.GenreIDs
		if genreIDs == nil {
			genreIDs = []int64{}
		}
		out.Results = append(out.Results, models.MovieSearchResult{
			TMDBID:        r.ID,
			Title:         r.Title,
			OriginalTitle: optional(r.OriginalTitle),
			Overview:      optional(r.Overview),
			PosterPath:    optional(r.PosterPath),
			BackdropPath:  optional(r.BackdropPath),
			ReleaseDate:   strings.TrimSpace(deref(r.ReleaseDate)),
			ReleaseYear:   releaseYear(r.ReleaseDate),
			VoteAverage:   r.VoteAverage,
			VoteCount:     r.VoteCount,
			GenreIDs:      genreIDs,
		})
	}
	return out
}
