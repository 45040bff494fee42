package tmdb

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when no API key is set.
var ErrNotConfigured = errors.New("tmdb: api key not configured")

// FetchError reports a failed TMDB request: a transport failure, a non-2xx
// response, an undecodable body or a rejection by the circuit breaker.
type FetchError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Body       string // truncated response body, if any
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether TMDB answered 404 for the resource.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == 404
}
