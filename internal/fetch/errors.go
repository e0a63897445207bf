package fetch

import "fmt"

// FetchError describes a failed page retrieval: network error, timeout,
// or a non-2xx response. Discovery and the tool executor treat these as
// skippable; they never abort a run.
type FetchError struct {
	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status, or 0 for transport-level failures.
	StatusCode int

	// Err is the underlying error, nil for pure status failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}
