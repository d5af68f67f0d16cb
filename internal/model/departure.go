package model

import (
	"fmt"
	"strings"
)

// TrainType is the service category code shown on the results page.
type TrainType string

const (
	AVE   TrainType = "AVE"
	Avant TrainType = "AVANT"
	MD    TrainType = "MD"

	// Other marks a scraped row whose service logo carried no readable type.
	Other TrainType = "OTHER"
)

// ParseTrainType validates a user-supplied train type against the known set.
// Values scraped from the results page bypass this and keep whatever code
// the page printed.
func ParseTrainType(s string) (TrainType, error) {
	switch t := TrainType(strings.ToUpper(strings.TrimSpace(s))); t {
	case AVE, Avant, MD:
		return t, nil
	}
	return "", fmt.Errorf("unknown train type %q: want one of AVE, AVANT, MD", s)
}

// Departure is one result row: a single train leaving the origin station on
// the searched date.
type Departure struct {
	DepartureTime   TimeOfDay  `json:"departure_time"`
	ArrivalTime     *TimeOfDay `json:"arrival_time,omitempty"`
	TrainType       TrainType  `json:"train_type"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	Available       bool       `json:"available"`
}
