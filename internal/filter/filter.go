// Package filter applies a search query's train type and time-of-day
// criteria to scraped departures.
package filter

import "renfe-cli/internal/model"

// Apply keeps the departures that pass the query's type filter and fall
// inside its time window, preserving input order. Both time bounds are
// inclusive and independent, so an inverted window keeps nothing. Apply
// never fails: an empty result is a valid outcome.
func Apply(departures []model.Departure, q model.SearchQuery) []model.Departure {
	kept := make([]model.Departure, 0, len(departures))
	for _, d := range departures {
		if !q.Types.Contains(d.TrainType) {
			continue
		}
		if q.After != nil && d.DepartureTime < *q.After {
			continue
		}
		if q.Before != nil && d.DepartureTime > *q.Before {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
