package scraper

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"renfe-cli/internal/model"
)

var (
	trainTypeRegex = regexp.MustCompile(`Tipo de tren (\w+)`)
	durationRegex  = regexp.MustCompile(`(?:(\d+)\s*h)?[^\d]*?(\d+)\s*min`)
	priceRegex     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// Extract parses rendered results-page HTML into departures, keeping the
// page's row order. Rows whose departure time cannot be read are skipped
// with a warning.
func Extract(html string, logger *log.Logger) ([]model.Departure, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var departures []model.Departure
	doc.Find(".selectedTren").Each(func(i int, row *goquery.Selection) {
		d, ok := extractRow(i, row, logger)
		if !ok {
			return
		}
		departures = append(departures, d)
	})

	return departures, nil
}

func extractRow(i int, row *goquery.Selection, logger *log.Logger) (model.Departure, bool) {
	var d model.Departure

	// Departure and arrival come as the row's first two h5 headings.
	times := row.Find("h5")
	dep, err := parseClock(times.Eq(0).Text())
	if err != nil {
		logger.Printf("warning: skipping result row %d: unreadable departure time: %v", i+1, err)
		return d, false
	}
	d.DepartureTime = dep

	if arr, err := parseClock(times.Eq(1).Text()); err == nil {
		d.ArrivalTime = &arr
	}

	d.TrainType = trainType(row)
	d.DurationMinutes = parseDuration(row.Find("span.text-number").First().Text())
	d.Price = parsePrice(row.Find("span.precio-final").First().Text())
	d.Available = !soldOut(row)

	return d, true
}

// The train type only appears in the service logo's alt text, as
// "Tipo de tren AVE".
func trainType(row *goquery.Selection) model.TrainType {
	alt, _ := row.Find("img.img-fluid").First().Attr("alt")
	if strings.Contains(alt, "Tipo de tren") {
		if m := trainTypeRegex.FindStringSubmatch(alt); m != nil {
			return model.TrainType(strings.ToUpper(m[1]))
		}
		if rest := strings.TrimSpace(strings.ReplaceAll(alt, "Tipo de tren", "")); rest != "" {
			return model.TrainType(strings.ToUpper(rest))
		}
	}
	return model.Other
}

// parseClock reads a results-page time like "08:30 h", "19:45h" or "8.30".
func parseClock(s string) (model.TimeOfDay, error) {
	return model.ParseTimeOfDay(strings.ReplaceAll(s, "h", ""))
}

// parseDuration converts the page's duration text ("2 h. 38 min.") into
// minutes. Unreadable text yields 0.
func parseDuration(s string) int {
	m := durationRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	minutes := 0
	if m[1] != "" {
		hours, _ := strconv.Atoi(m[1])
		minutes += hours * 60
	}
	rest, _ := strconv.Atoi(m[2])
	return minutes + rest
}

// parsePrice reads the euro amount out of text like "desde 63,15 €".
// Rows without a bookable fare have no amount at all; nil marks that.
func parsePrice(s string) *float64 {
	if i := strings.LastIndex(s, "desde"); i >= 0 {
		s = s[i+len("desde"):]
	}
	m := priceRegex.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// The page swaps the buy button for a "Tren Completo" notice when a train
// has no seats left.
func soldOut(row *goquery.Selection) bool {
	sold := false
	row.Find("div#boton-style").Each(func(_ int, sel *goquery.Selection) {
		if strings.Contains(sel.Text(), "Tren Completo") {
			sold = true
		}
	})
	return sold
}
