// Part 1: Drive the renfe.com booking flow with chromedp and dump the
// rendered results page HTML to stdout.
//
// Usage: CHROME_PATH=/path/to/chromium fetch-results [-d days] <origin> <destination>
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"renfe-cli/internal/query"
	"renfe-cli/internal/scraper"
)

func main() {
	days := flag.Int("d", 0, "day offset from today, 0-15")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fetch-results [-d days] <origin> <destination>")
		os.Exit(2)
	}

	q, err := query.Build(flag.Arg(0), flag.Arg(1), *days, nil, "", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	src := scraper.NewRenfe("", logger, nil, false)

	html, err := src.FetchHTML(ctx, q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(html)
}
