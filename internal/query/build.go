// Package query builds validated search queries from raw CLI input.
package query

import (
	"fmt"
	"strings"

	"renfe-cli/internal/model"
)

// Day offsets beyond this are rejected rather than sent to the booking site.
const maxDayOffset = 15

// ValidationError reports a search parameter that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Build assembles a SearchQuery from raw CLI values. Train type values may
// be repeated and comma-separated; "ALL" anywhere disables type filtering,
// as does supplying no types at all. Empty before/after strings mean no
// bound. Build performs no network or browser work.
func Build(origin, destination string, days int, trainTypes []string, before, after string) (model.SearchQuery, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return model.SearchQuery{}, &ValidationError{Field: "origin", Message: "station name must not be empty"}
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return model.SearchQuery{}, &ValidationError{Field: "destination", Message: "station name must not be empty"}
	}

	if days < 0 || days > maxDayOffset {
		return model.SearchQuery{}, &ValidationError{
			Field:   "days",
			Message: fmt.Sprintf("day offset must be between 0 and %d, got %d", maxDayOffset, days),
		}
	}

	types, err := parseTypes(trainTypes)
	if err != nil {
		return model.SearchQuery{}, err
	}

	beforeTime, err := parseBound("before", before)
	if err != nil {
		return model.SearchQuery{}, err
	}
	afterTime, err := parseBound("after", after)
	if err != nil {
		return model.SearchQuery{}, err
	}

	return model.SearchQuery{
		Origin:      origin,
		Destination: destination,
		DayOffset:   days,
		Types:       types,
		Before:      beforeTime,
		After:       afterTime,
	}, nil
}

func parseTypes(values []string) (model.TypeFilter, error) {
	var parsed []model.TrainType
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if strings.EqualFold(token, "ALL") {
				return model.NewTypeFilter(), nil
			}
			t, err := model.ParseTrainType(token)
			if err != nil {
				return model.TypeFilter{}, &ValidationError{Field: "train-types", Message: err.Error()}
			}
			parsed = append(parsed, t)
		}
	}
	return model.NewTypeFilter(parsed...), nil
}

func parseBound(field, value string) (*model.TimeOfDay, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := model.ParseTimeOfDay(value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: err.Error()}
	}
	return &t, nil
}
