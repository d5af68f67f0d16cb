// Command renfe searches renfe.com for train departures between two
// stations and prints the matching ones.
//
// Usage: renfe [flags] <origin> <destination>
//
//	renfe -d 1 -t AVE -after 08:00 Girona Barcelona
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"renfe-cli/internal/filter"
	"renfe-cli/internal/present"
	"renfe-cli/internal/query"
	"renfe-cli/internal/scraper"
	"renfe-cli/internal/store"
)

const (
	logFileName = "renfe.log"

	// The whole browser session has to finish inside this window.
	fetchTimeout = 3 * time.Minute
)

// typeList collects every -t / -train-types occurrence; values may
// themselves be comma-separated.
type typeList []string

func (l *typeList) String() string {
	return strings.Join(*l, ",")
}

func (l *typeList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run executes one search: parse, scrape, filter, print. A non-nil source
// overrides the production scraper in tests. Exit code 0 means success,
// including a search that matched nothing; 2 is bad input; 1 is a failed
// scrape.
func run(args []string, stdout, stderr io.Writer, source scraper.Source) int {
	fs := flag.NewFlagSet("renfe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	days := fs.Int("days", 0, "day offset from today, 0-15")
	fs.IntVar(days, "d", 0, "shorthand for -days")
	var types typeList
	fs.Var(&types, "train-types", "train types to keep: AVE, AVANT, MD or ALL (repeatable, comma-separated)")
	fs.Var(&types, "t", "shorthand for -train-types")
	before := fs.String("before", "", "keep departures at or before this time (HH:MM)")
	after := fs.String("after", "", "keep departures at or after this time (HH:MM)")
	quiet := fs.Bool("quiet", false, "print only departure time and train type, and keep progress out of the terminal")
	fs.BoolVar(quiet, "q", false, "shorthand for -quiet")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: renfe [flags] <origin> <destination>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	q, err := query.Build(fs.Arg(0), fs.Arg(1), *days, types, *before, *after)
	if err != nil {
		fmt.Fprintf(stderr, "renfe: %v\n", err)
		return 2
	}

	// The run log always goes to a file; verbose runs mirror it on stderr.
	var sinks []io.Writer
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(stderr, "warning: cannot open %s: %v\n", logFileName, err)
	} else {
		defer logFile.Close()
		sinks = append(sinks, logFile)
	}
	if !*quiet {
		sinks = append(sinks, stderr)
	}
	logger := log.New(io.MultiWriter(sinks...), "", log.LstdFlags)

	artifacts := openArtifactStore(logger)
	if artifacts != nil {
		defer artifacts.Close()
	}

	if source == nil {
		source = scraper.NewRenfe("", logger, artifacts, !*quiet)
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	departures, err := source.Fetch(ctx, q)
	if err != nil {
		var serr *scraper.ScrapeError
		if errors.As(err, &serr) && serr.Timeout() {
			fmt.Fprintf(stderr, "renfe: search timed out: %v\n", serr)
		} else {
			fmt.Fprintf(stderr, "renfe: %v\n", err)
		}
		return 1
	}

	matches := filter.Apply(departures, q)

	if !*quiet {
		fmt.Fprintln(stdout, present.Header(q, q.TravelDate(time.Now())))
	}
	fmt.Fprint(stdout, present.Render(matches, !*quiet))
	return 0
}

// openArtifactStore picks where screenshots and page dumps go: a GCS bucket
// when RENFE_GCS_BUCKET is set, a local directory otherwise. Artifacts are
// best-effort, so failing to open a store only costs the artifacts.
func openArtifactStore(logger *log.Logger) store.Store {
	if bucket := os.Getenv("RENFE_GCS_BUCKET"); bucket != "" {
		gcs, err := store.NewGCS(context.Background(), bucket)
		if err != nil {
			logger.Printf("artifact store unavailable: %v", err)
			return nil
		}
		logger.Printf("artifacts: GCS bucket %s", bucket)
		return gcs
	}

	dir := os.Getenv("RENFE_ARTIFACT_DIR")
	if dir == "" {
		dir = "artifacts"
	}
	local, err := store.NewLocal(dir)
	if err != nil {
		logger.Printf("artifact store unavailable: %v", err)
		return nil
	}
	logger.Printf("artifacts: local directory %s", dir)
	return local
}
