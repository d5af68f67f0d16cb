package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"renfe-cli/internal/model"
)

func validationField(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	return verr.Field
}

func TestBuildAcceptsEveryDayOffsetInRange(t *testing.T) {
	for days := 0; days <= 15; days++ {
		t.Run(fmt.Sprintf("days=%d", days), func(t *testing.T) {
			q, err := Build("Madrid", "Barcelona", days, nil, "", "")
			assert.Nil(t, err)
			assert.Equal(t, days, q.DayOffset)
		})
	}
}

func TestBuildRejectsDayOffsetOutOfRange(t *testing.T) {
	for _, days := range []int{-1, 16, 100} {
		t.Run(fmt.Sprintf("days=%d", days), func(t *testing.T) {
			_, err := Build("Madrid", "Barcelona", days, nil, "", "")
			assert.Equal(t, "days", validationField(t, err))
		})
	}
}

func TestBuildRejectsEmptyStations(t *testing.T) {
	_, err := Build("", "Barcelona", 0, nil, "", "")
	assert.Equal(t, "origin", validationField(t, err))

	_, err = Build("Madrid", "   ", 0, nil, "", "")
	assert.Equal(t, "destination", validationField(t, err))
}

func TestBuildTrimsStationNames(t *testing.T) {
	q, err := Build("  Madrid ", " Barcelona  ", 0, nil, "", "")
	assert.Nil(t, err)
	assert.Equal(t, "Madrid", q.Origin)
	assert.Equal(t, "Barcelona", q.Destination)
}

func TestBuildTrainTypes(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		all    bool
		keeps  []model.TrainType
		drops  []model.TrainType
	}{
		{"unspecified means all", nil, true, nil, nil},
		{"explicit all", []string{"ALL"}, true, nil, nil},
		{"all wins over others", []string{"AVE", "all"}, true, nil, nil},
		{"single", []string{"AVANT"}, false, []model.TrainType{model.Avant}, []model.TrainType{model.AVE, model.MD}},
		{"comma separated", []string{"AVE,MD"}, false, []model.TrainType{model.AVE, model.MD}, []model.TrainType{model.Avant}},
		{"repeated and lowercased", []string{"ave", "md"}, false, []model.TrainType{model.AVE, model.MD}, []model.TrainType{model.Avant}},
		{"stray commas ignored", []string{"AVE,", ",MD"}, false, []model.TrainType{model.AVE, model.MD}, []model.TrainType{model.Avant}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build("Madrid", "Barcelona", 0, tt.values, "", "")
			assert.Nil(t, err)
			assert.Equal(t, tt.all, q.Types.All())
			for _, keep := range tt.keeps {
				assert.True(t, q.Types.Contains(keep), "expected %s to pass", keep)
			}
			for _, drop := range tt.drops {
				assert.False(t, q.Types.Contains(drop), "expected %s to be filtered", drop)
			}
		})
	}
}

func TestBuildRejectsUnknownTrainType(t *testing.T) {
	_, err := Build("Madrid", "Barcelona", 0, []string{"AVE", "TGV"}, "", "")
	assert.Equal(t, "train-types", validationField(t, err))
}

func TestBuildTimeBounds(t *testing.T) {
	q, err := Build("Madrid", "Barcelona", 0, nil, "18:00", "08:30")
	assert.Nil(t, err)
	if assert.NotNil(t, q.Before) {
		assert.Equal(t, model.TimeOfDay(18*60), *q.Before)
	}
	if assert.NotNil(t, q.After) {
		assert.Equal(t, model.TimeOfDay(8*60+30), *q.After)
	}
}

func TestBuildLeavesAbsentBoundsNil(t *testing.T) {
	q, err := Build("Madrid", "Barcelona", 0, nil, "", "")
	assert.Nil(t, err)
	assert.Nil(t, q.Before)
	assert.Nil(t, q.After)
}

func TestBuildRejectsMalformedBounds(t *testing.T) {
	_, err := Build("Madrid", "Barcelona", 0, nil, "25:00", "")
	assert.Equal(t, "before", validationField(t, err))

	_, err = Build("Madrid", "Barcelona", 0, nil, "", "nine")
	assert.Equal(t, "after", validationField(t, err))
}

func TestBuildDoesNotValidateBoundOrdering(t *testing.T) {
	// An inverted window is a legal query that simply matches nothing;
	// the filter handles it, not the builder.
	q, err := Build("Madrid", "Barcelona", 0, nil, "09:00", "10:00")
	assert.Nil(t, err)
	assert.NotNil(t, q.Before)
	assert.NotNil(t, q.After)
}
