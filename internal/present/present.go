// Package present turns filtered departures into terminal text.
package present

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"renfe-cli/internal/model"
)

// NoMatches is shown when the page listed no departures or every one was
// filtered out. An empty result is a normal outcome, not an error.
const NoMatches = "No trains found matching criteria."

// Header describes the search above the result rows.
func Header(q model.SearchQuery, travelDate time.Time) string {
	return fmt.Sprintf("Trains from %s to %s on %s", q.Origin, q.Destination, travelDate.Format("02/01/2006"))
}

// Render formats departures for the terminal. Quiet output is a numbered
// list of time and train type; verbose output adds arrival, duration, price
// and availability columns plus a total. Writing the text anywhere is the
// caller's job.
func Render(departures []model.Departure, verbose bool) string {
	if len(departures) == 0 {
		return NoMatches + "\n"
	}
	if !verbose {
		return renderQuiet(departures)
	}
	return renderVerbose(departures)
}

func renderQuiet(departures []model.Departure) string {
	var b strings.Builder
	for i, d := range departures {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, d.DepartureTime, d.TrainType)
	}
	return b.String()
}

func renderVerbose(departures []model.Departure) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDEPARTURE\tARRIVAL\tTYPE\tDURATION\tPRICE\tSTATUS")
	for i, d := range departures {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, d.DepartureTime, arrival(d), d.TrainType,
			duration(d.DurationMinutes), price(d.Price), status(d))
	}
	w.Flush()

	unit := "trains"
	if len(departures) == 1 {
		unit = "train"
	}
	fmt.Fprintf(&b, "\nTotal: %d %s\n", len(departures), unit)
	return b.String()
}

func arrival(d model.Departure) string {
	if d.ArrivalTime == nil {
		return "-"
	}
	return d.ArrivalTime.String()
}

func duration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func price(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f €", *p)
}

func status(d model.Departure) string {
	if !d.Available {
		return "sold out"
	}
	return ""
}
