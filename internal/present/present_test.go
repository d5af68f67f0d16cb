package present

import (
	"strings"
	"testing"
	"time"

	"renfe-cli/internal/model"
)

func at(hour, minute int) model.TimeOfDay {
	return model.TimeOfDay(hour*60 + minute)
}

func euros(v float64) *float64 {
	return &v
}

func sample() []model.Departure {
	arr := at(10, 38)
	return []model.Departure{
		{DepartureTime: at(8, 0), ArrivalTime: &arr, TrainType: model.AVE, DurationMinutes: 158, Price: euros(63.15), Available: true},
		{DepartureTime: at(9, 30), TrainType: model.Avant, DurationMinutes: 45, Available: false},
		{DepartureTime: at(16, 15), TrainType: model.MD, Available: true},
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		got := Render(nil, verbose)
		if !strings.Contains(strings.ToLower(got), "no trains found matching criteria") {
			t.Errorf("Render(nil, %v) = %q, want the no-matches message", verbose, got)
		}
	}
}

func TestRenderQuiet(t *testing.T) {
	got := Render(sample(), false)
	want := "1. 08:00 AVE\n2. 09:30 AVANT\n3. 16:15 MD\n"
	if got != want {
		t.Errorf("Render(quiet) = %q, want %q", got, want)
	}
}

func TestRenderQuietOmitsDetailColumns(t *testing.T) {
	got := Render(sample(), false)
	for _, detail := range []string{"63.15", "2h38m", "sold out", "Total"} {
		if strings.Contains(got, detail) {
			t.Errorf("quiet output should not contain %q, got:\n%s", detail, got)
		}
	}
}

func TestRenderVerbose(t *testing.T) {
	got := Render(sample(), true)

	t.Run("should include every detail column", func(t *testing.T) {
		for _, want := range []string{"DEPARTURE", "ARRIVAL", "TYPE", "DURATION", "PRICE", "STATUS"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing column %q in:\n%s", want, got)
			}
		}
	})

	t.Run("should format the fully populated row", func(t *testing.T) {
		for _, want := range []string{"08:00", "10:38", "AVE", "2h38m", "63.15 €"} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %q in:\n%s", want, got)
			}
		}
	})

	t.Run("should mark a sold out train", func(t *testing.T) {
		if !strings.Contains(got, "sold out") {
			t.Errorf("missing sold out marker in:\n%s", got)
		}
	})

	t.Run("should dash out missing values", func(t *testing.T) {
		line := rowContaining(t, got, "16:15")
		if !strings.Contains(line, "-") {
			t.Errorf("row with no arrival, duration or price should carry dashes, got %q", line)
		}
	})

	t.Run("should count the rows", func(t *testing.T) {
		if !strings.Contains(got, "Total: 3 trains") {
			t.Errorf("missing total in:\n%s", got)
		}
	})
}

func TestRenderVerboseSingularTotal(t *testing.T) {
	got := Render(sample()[:1], true)
	if !strings.Contains(got, "Total: 1 train\n") {
		t.Errorf("want singular total, got:\n%s", got)
	}
}

func TestRenderNumbersRowsInInputOrder(t *testing.T) {
	got := Render(sample(), true)
	first := strings.Index(got, "08:00")
	second := strings.Index(got, "09:30")
	third := strings.Index(got, "16:15")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Errorf("rows out of order in:\n%s", got)
	}
}

func TestHeader(t *testing.T) {
	q := model.SearchQuery{Origin: "Madrid", Destination: "Barcelona"}
	date := time.Date(2026, time.August, 21, 0, 0, 0, 0, time.UTC)
	got := Header(q, date)
	want := "Trains from Madrid to Barcelona on 21/08/2026"
	if got != want {
		t.Errorf("Header() = %q, want %q", got, want)
	}
}

func TestShortDurationHasNoHourPart(t *testing.T) {
	got := Render(sample(), true)
	if !strings.Contains(got, "45m") || strings.Contains(got, "0h45m") {
		t.Errorf("45 minute run should render as 45m, got:\n%s", got)
	}
}

func rowContaining(t *testing.T, output, needle string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("no output line contains %q:\n%s", needle, output)
	return ""
}
