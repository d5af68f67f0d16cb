package scraper

import (
	"context"
	"errors"
	"fmt"

	"renfe-cli/internal/model"
)

// Source defines the interface a departure source must implement.
type Source interface {
	// Name returns the human-readable name of this departure source.
	Name() string

	// Fetch retrieves the departures the source lists for the query, in the
	// order the source presents them. Implementations own whatever external
	// resources the fetch needs, on every exit path.
	Fetch(ctx context.Context, q model.SearchQuery) ([]model.Departure, error)
}

// ScrapeError reports a failed fetch, naming the step that broke.
type ScrapeError struct {
	Step string
	Err  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch died on a deadline rather than on a
// page change or navigation failure.
func (e *ScrapeError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
