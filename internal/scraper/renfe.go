package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"renfe-cli/internal/model"
	"renfe-cli/internal/store"
)

const (
	renfeSourceName = "Renfe"
	renfeDefaultURL = "https://www.renfe.com/es/es"

	// The booking form occasionally eats the first keystrokes; the original
	// tooling retried each station field up to three times.
	fillAttempts = 3

	// How long to wait for result rows before extracting the page as is.
	// A day with no service never renders any rows.
	resultsWait = 45 * time.Second
)

// Renfe drives a headless browser through the renfe.com booking flow and
// extracts the departures the results page lists.
type Renfe struct {
	url            string
	logger         *log.Logger
	artifacts      store.Store
	captureResults bool
}

// NewRenfe creates a scraper for the Renfe booking site. An empty url falls
// back to the RENFE_URL environment variable, then to the production site.
// artifacts may be nil to disable screenshots; captureResults controls
// whether successful runs also save the rendered page.
func NewRenfe(url string, logger *log.Logger, artifacts store.Store, captureResults bool) *Renfe {
	if url == "" {
		url = os.Getenv("RENFE_URL")
	}
	if url == "" {
		url = renfeDefaultURL
	}
	return &Renfe{
		url:            url,
		logger:         logger,
		artifacts:      artifacts,
		captureResults: captureResults,
	}
}

func (s *Renfe) Name() string {
	return renfeSourceName
}

// Fetch runs the booking flow for the query and returns the departures the
// results page listed, in page order. It never filters; an empty slice is a
// valid result.
func (s *Renfe) Fetch(ctx context.Context, q model.SearchQuery) ([]model.Departure, error) {
	html, err := s.run(ctx, q, s.captureResults)
	if err != nil {
		return nil, err
	}

	departures, err := Extract(html, s.logger)
	if err != nil {
		return nil, &ScrapeError{Step: "reading the results page", Err: err}
	}
	s.logger.Printf("found %d departures", len(departures))

	return departures, nil
}

// FetchHTML runs the booking flow and returns the rendered results page
// without extracting departures from it.
func (s *Renfe) FetchHTML(ctx context.Context, q model.SearchQuery) (string, error) {
	return s.run(ctx, q, false)
}

// run owns one full browser session: allocate, drive the booking flow,
// capture the rendered page. The browser is torn down on every exit path.
func (s *Renfe) run(ctx context.Context, q model.SearchQuery, capture bool) (string, error) {
	// Create headless Chrome context
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	opts = append(opts,
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	runID := time.Now().Format("20060102-150405")
	travelDate := q.TravelDate(time.Now())
	s.logger.Printf("searching trains from %s to %s on %s", q.Origin, q.Destination, travelDate.Format("02/01/2006"))

	html, err := s.drive(chromeCtx, q, travelDate)
	if err != nil {
		s.saveScreenshot(chromeCtx, runID+"-error.png")
		return "", err
	}

	if capture {
		s.saveArtifact(runID+"-results.html", []byte(html))
		s.saveScreenshot(chromeCtx, runID+"-results.png")
	}

	return html, nil
}

// drive walks the booking form from the home page to the rendered results.
// Failures carry the step that broke.
func (s *Renfe) drive(ctx context.Context, q model.SearchQuery, travelDate time.Time) (string, error) {
	if err := s.openHome(ctx); err != nil {
		return "", &ScrapeError{Step: "opening the booking page", Err: err}
	}
	s.acceptCookies(ctx)

	if err := s.fillOrigin(ctx, q.Origin); err != nil {
		return "", &ScrapeError{Step: "filling the origin station", Err: err}
	}
	if err := s.fillDestination(ctx, q.Destination); err != nil {
		return "", &ScrapeError{Step: "filling the destination station", Err: err}
	}
	if err := s.selectDate(ctx, travelDate); err != nil {
		return "", &ScrapeError{Step: "selecting the travel date", Err: err}
	}
	if err := s.submitSearch(ctx); err != nil {
		return "", &ScrapeError{Step: "running the search", Err: err}
	}

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", &ScrapeError{Step: "capturing the results page", Err: err}
	}
	return html, nil
}

func (s *Renfe) openHome(ctx context.Context) error {
	err := chromedp.Run(ctx,
		chromedp.Navigate(s.url),
		// Give the page time to load properly
		chromedp.Sleep(3*time.Second),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", s.url, err)
	}
	return nil
}

// acceptCookies dismisses the OneTrust banner. Its absence is fine.
func (s *Renfe) acceptCookies(ctx context.Context) {
	bannerCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := chromedp.Run(bannerCtx,
		chromedp.WaitVisible("#onetrust-accept-btn-handler", chromedp.ByQuery),
		chromedp.Click("#onetrust-accept-btn-handler", chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
	)
	if err != nil {
		s.logger.Printf("no cookie banner found")
		return
	}
	s.logger.Printf("cookies accepted")
}

func (s *Renfe) fillOrigin(ctx context.Context, origin string) error {
	var err error
	for attempt := 1; attempt <= fillAttempts; attempt++ {
		if err = s.fillStation(ctx, "origin", origin); err == nil {
			s.logger.Printf("origin selected: %s", origin)
			return nil
		}
		if attempt < fillAttempts {
			s.logger.Printf("attempt %d to fill origin failed, reloading: %v", attempt, err)
			if reloadErr := chromedp.Run(ctx,
				chromedp.Sleep(2*time.Second),
				chromedp.Reload(),
				chromedp.Sleep(3*time.Second),
			); reloadErr != nil {
				return fmt.Errorf("reloading the booking page: %w", reloadErr)
			}
			s.acceptCookies(ctx)
		}
	}
	return err
}

func (s *Renfe) fillDestination(ctx context.Context, destination string) error {
	var err error
	for attempt := 1; attempt <= fillAttempts; attempt++ {
		if err = s.fillStation(ctx, "destination", destination); err == nil {
			s.logger.Printf("destination selected: %s", destination)
			return nil
		}
		if attempt < fillAttempts {
			s.logger.Printf("attempt %d to fill destination failed, retrying: %v", attempt, err)
			if waitErr := chromedp.Run(ctx, chromedp.Sleep(2*time.Second)); waitErr != nil {
				return waitErr
			}
		}
	}
	return err
}

// fillStation types a station name into the given form field and picks it
// from the autocomplete drop-down, preferring the suggestion that mentions
// the station over the first one.
func (s *Renfe) fillStation(ctx context.Context, fieldID, station string) error {
	sel := "#" + fieldID
	err := chromedp.Run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Click(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, station, chromedp.ByQuery),
		// Wait for the autocomplete to populate
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("typing into %s: %w", fieldID, err)
	}

	var picked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(pickSuggestionScript(station), &picked)); err != nil {
		return fmt.Errorf("reading autocomplete suggestions: %w", err)
	}
	if !picked {
		// No drop-down appeared; drive the selection with the keyboard.
		if err := chromedp.Run(ctx, chromedp.SendKeys(sel, kb.ArrowDown+kb.Enter, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("selecting a suggestion for %s: %w", fieldID, err)
		}
	}

	return chromedp.Run(ctx, chromedp.Sleep(1*time.Second))
}

// pickSuggestionScript clicks the autocomplete entry matching the station,
// or the first entry when none does. It reports whether anything was there
// to click.
func pickSuggestionScript(station string) string {
	return fmt.Sprintf(`(function() {
	var items = document.querySelectorAll("div[class*='autocomplete'] li");
	if (items.length === 0) {
		return false;
	}
	var want = %q.toUpperCase();
	for (var i = 0; i < items.length; i++) {
		if (items[i].textContent.toUpperCase().indexOf(want) !== -1) {
			items[i].click();
			return true;
		}
	}
	items[0].click();
	return true;
})()`, station)
}

// selectDate opens the calendar, switches to one-way travel and picks the
// travel day, stepping the calendar forward when the date falls in a later
// month.
func (s *Renfe) selectDate(ctx context.Context, travelDate time.Time) error {
	err := chromedp.Run(ctx,
		chromedp.Click("#first-input", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.WaitVisible(`//label[@for='trip-go']`, chromedp.BySearch),
		chromedp.Click(`//label[@for='trip-go']`, chromedp.BySearch),
		chromedp.Sleep(1*time.Second),
	)
	if err != nil {
		return fmt.Errorf("switching to one-way travel: %w", err)
	}
	s.logger.Printf("one-way trip selected")

	for months := monthsAhead(time.Now(), travelDate); months > 0; months-- {
		err := chromedp.Run(ctx,
			chromedp.Click("button.lightpick__next-action", chromedp.ByQuery),
			chromedp.Sleep(500*time.Millisecond),
		)
		if err != nil {
			return fmt.Errorf("advancing the calendar month: %w", err)
		}
	}

	// The day cell is matched by number within the displayed month.
	daySel := fmt.Sprintf(`//div[contains(@class, 'lightpick__day') and text()='%d' and not(contains(@class, 'is-previous-month')) and not(contains(@class, 'is-next-month'))]`, travelDate.Day())
	err = chromedp.Run(ctx,
		chromedp.WaitVisible(daySel, chromedp.BySearch),
		chromedp.Click(daySel, chromedp.BySearch),
		chromedp.Sleep(1*time.Second),
	)
	if err != nil {
		return fmt.Errorf("picking day %d in the calendar: %w", travelDate.Day(), err)
	}
	s.logger.Printf("date %s selected", travelDate.Format("02/01/2006"))

	s.confirmDate(ctx)
	return nil
}

func monthsAhead(now, travelDate time.Time) int {
	return (travelDate.Year()-now.Year())*12 + int(travelDate.Month()) - int(now.Month())
}

// confirmDate clicks the calendar's apply button, which is not always
// rendered. Skipping it is fine.
func (s *Renfe) confirmDate(ctx context.Context) {
	applyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := chromedp.Run(applyCtx,
		chromedp.WaitVisible("button.lightpick__apply-action-sub", chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector("button.lightpick__apply-action-sub").click()`, nil),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		s.logger.Printf("calendar apply button not present")
		return
	}
	s.logger.Printf("calendar confirmed")
}

// submitSearch fires the search and waits for result rows to render.
func (s *Renfe) submitSearch(ctx context.Context) error {
	const submitSel = `button[type="submit"].mdc-button.rf-button--primary`
	err := chromedp.Run(ctx,
		// Scroll to top to ensure the button is clickable
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.WaitVisible(submitSel, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q).click()`, submitSel), nil),
	)
	if err != nil {
		return fmt.Errorf("submitting the search: %w", err)
	}
	s.logger.Printf("search initiated")

	waitCtx, cancel := context.WithTimeout(ctx, resultsWait)
	defer cancel()

	err = chromedp.Run(waitCtx,
		chromedp.WaitVisible(".selectedTren", chromedp.ByQuery),
		// Let the remaining rows finish rendering
		chromedp.Sleep(3*time.Second),
	)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("waiting for results: %w", ctx.Err())
		}
		s.logger.Printf("no result rows appeared, extracting the page as is")
	}
	return nil
}

// saveScreenshot captures the current page into the artifact store.
// Best-effort: a missing screenshot never fails the run.
func (s *Renfe) saveScreenshot(ctx context.Context, name string) {
	if s.artifacts == nil {
		return
	}
	var shot []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		s.logger.Printf("capturing screenshot: %v", err)
		return
	}
	s.saveArtifact(name, shot)
}

func (s *Renfe) saveArtifact(name string, data []byte) {
	if s.artifacts == nil {
		return
	}
	if err := s.artifacts.Put(name, data); err != nil {
		s.logger.Printf("saving %s: %v", name, err)
		return
	}
	s.logger.Printf("saved %s", name)
}
