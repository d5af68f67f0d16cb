package model

import (
	"sort"
	"strings"
	"time"
)

// TypeFilter is the set of train types a search keeps. The zero value keeps
// every type.
type TypeFilter struct {
	types map[TrainType]bool
}

// NewTypeFilter builds a filter that keeps exactly the given types. With no
// arguments the filter keeps everything.
func NewTypeFilter(types ...TrainType) TypeFilter {
	if len(types) == 0 {
		return TypeFilter{}
	}
	m := make(map[TrainType]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return TypeFilter{types: m}
}

// All reports whether the filter keeps every train type.
func (f TypeFilter) All() bool {
	return len(f.types) == 0
}

// Contains reports whether t passes the filter. Every type passes the zero
// filter.
func (f TypeFilter) Contains(t TrainType) bool {
	return f.All() || f.types[t]
}

func (f TypeFilter) String() string {
	if f.All() {
		return "ALL"
	}
	names := make([]string, 0, len(f.types))
	for t := range f.types {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// SearchQuery is the validated parameter set for one departure search.
type SearchQuery struct {
	Origin      string
	Destination string
	DayOffset   int
	Types       TypeFilter
	Before      *TimeOfDay
	After       *TimeOfDay
}

// TravelDate resolves the query's day offset against now.
func (q SearchQuery) TravelDate(now time.Time) time.Time {
	return now.AddDate(0, 0, q.DayOffset)
}
