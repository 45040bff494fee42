// Package tmdb fetches movie, person and company metadata from The Movie
// Database and normalizes it into the cached record shapes.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sourcegraph/conc/pool"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"filmpivot/config"
	"filmpivot/internal/logging"
	"filmpivot/internal/metrics"
	"filmpivot/models"
)

const (
	breakerName     = "tmdb-api"
	maxBodyExcerpt  = 512
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultPages    = 5
	maxResponseSize = 8 << 20
)

// Client is a TMDB v3 client. It is safe for concurrent use.
type Client struct {
	apiKey   string
	baseURL  string
	maxPages int
	httpc    *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// NewClient builds a client from configuration. An empty API key is
// accepted; every call then fails with ErrNotConfigured.
func NewClient(cfg config.TMDBConfig, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pages := cfg.MaxCompanyPages
	if pages <= 0 {
		pages = defaultPages
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  baseURL,
		maxPages: pages,
		httpc:    &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
		breaker:  newBreaker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// Client errors (404 for an unknown id, 401 for a bad key) say
		// nothing about upstream health.
		IsSuccessful: func(err error) bool {
			var fe *FetchError
			if errors.As(err, &fe) && fe.StatusCode >= 400 && fe.StatusCode < 500 && fe.StatusCode != http.StatusTooManyRequests {
				return true
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Component("tmdb").Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// get issues GET {baseURL}{path} and decodes the JSON body into v. kind is
// the low-cardinality endpoint label used for metrics.
func (c *Client) get(ctx context.Context, kind, path string, query url.Values, v any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.TMDBRequests.WithLabelValues(kind, "throttled").Inc()
		return &FetchError{Endpoint: path, Err: err}
	}

	q := url.Values{}
	for k, vals := range query {
		q[k] = vals
	}
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path, endpoint)
	})
	metrics.TMDBRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
			err = &FetchError{Endpoint: path, Err: err}
		}
		metrics.TMDBRequests.WithLabelValues(kind, outcome).Inc()
		logging.Component("tmdb").Warn().Err(err).Str("endpoint", path).Msg("request failed")
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		metrics.TMDBRequests.WithLabelValues(kind, "decode_error").Inc()
		return &FetchError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	metrics.TMDBRequests.WithLabelValues(kind, "ok").Inc()
	return nil
}

func (c *Client) do(ctx context.Context, path, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &FetchError{Endpoint: path, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := string(body)
		if len(excerpt) > maxBodyExcerpt {
			excerpt = excerpt[:maxBodyExcerpt]
		}
		return nil, &FetchError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       excerpt,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}

// MovieDetails fetches a movie and its credits. The first crew member with
// the Director job becomes the movie's director.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (*models.CachedMovie, error) {
	id := strconv.FormatInt(tmdbID, 10)

	var movie movieDTO
	if err := c.get(ctx, "movie", "/movie/"+id, nil, &movie); err != nil {
		return nil, err
	}
	var credits movieCreditsDTO
	if err := c.get(ctx, "movie_credits", "/movie/"+id+"/credits", nil, &credits); err != nil {
		return nil, err
	}

	out := normalizeMovie(movie, credits)
	out.TMDBID = requestedID("movie", tmdbID, movie.ID)
	return &out, nil
}

// PersonDetails fetches a person and keeps only their directing credits.
func (c *Client) PersonDetails(ctx context.Context, personID int64) (*models.CachedDirector, error) {
	id := strconv.FormatInt(personID, 10)

	var person personDTO
	if err := c.get(ctx, "person", "/person/"+id, nil, &person); err != nil {
		return nil, err
	}
	var credits personCreditsDTO
	if err := c.get(ctx, "person_credits", "/person/"+id+"/movie_credits", nil, &credits); err != nil {
		return nil, err
	}

	out := normalizePerson(person, credits)
	out.TMDBPersonID = requestedID("person", personID, person.ID)
	return &out, nil
}

// CompanyDetails fetches a company and its most voted movies. Page 1 is
// read first to learn the page count; the remaining pages are fetched
// concurrently and concatenated in page order.
func (c *Client) CompanyDetails(ctx context.Context, companyID int64) (*models.CachedStudio, error) {
	id := strconv.FormatInt(companyID, 10)

	var company companyDetailsDTO
	if err := c.get(ctx, "company", "/company/"+id, nil, &company); err != nil {
		return nil, err
	}

	first, err := c.discoverPage(ctx, id, 1)
	if err != nil {
		return nil, err
	}

	pages := min(first.TotalPages, c.maxPages)
	results := make([][]creditDTO, max(pages, 1))
	results[0] = first.Results

	if pages > 1 {
		p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
		for n := 2; n <= pages; n++ {
			page := n
			p.Go(func(ctx context.Context) error {
				resp, err := c.discoverPage(ctx, id, page)
				if err != nil {
					return err
				}
				results[page-1] = resp.Results
				return nil
			})
		}
		if err := p.Wait(); err != nil {
			return nil, err
		}
	}

	var movies []creditDTO
	for _, r := range results {
		movies = append(movies, r...)
	}
	out := normalizeCompany(company, movies)
	out.TMDBCompanyID = requestedID("company", companyID, company.ID)
	return &out, nil
}

func (c *Client) discoverPage(ctx context.Context, companyID string, page int) (*pageDTO, error) {
	q := url.Values{}
	q.Set("with_companies", companyID)
	q.Set("sort_by", "vote_count.desc")
	q.Set("page", strconv.Itoa(page))

	var resp pageDTO
	if err := c.get(ctx, "discover", "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchMovies runs a title search. Adult titles are excluded.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*models.MovieSearchPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("include_adult", "false")

	var resp pageDTO
	if err := c.get(ctx, "search", "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	out := normalizeSearchPage(resp)
	return &out, nil
}
