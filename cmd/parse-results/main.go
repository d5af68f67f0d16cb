// Part 2: Parse a rendered results page into departures as JSON.
// Reads HTML from stdin, outputs JSON to stdout.
//
// Usage: cat results.html | parse-results
// Or:    fetch-results Girona Barcelona | parse-results
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"renfe-cli/internal/scraper"
)

func main() {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	departures, err := scraper.Extract(string(input), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(departures); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
