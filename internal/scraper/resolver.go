package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// SiteHost identifies links that point back into the guidance site
	SiteHost = "dataguidance.com"

	// TrackerMarker marks links to the site's aggregate state law tracker,
	// which is never a jurisdiction-specific regulation.
	TrackerMarker = "usa-state-law-tracker"
)

// Outcome classifies the result of resolving one link field
type Outcome int

const (
	OutcomeMissing  Outcome = iota // no link where one was expected
	OutcomeFound                   // URL holds the resolved link
	OutcomeExcluded                // link deliberately not recorded
	OutcomeFailed                  // resolution hit an error (secondary fetch, bad URL)
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeExcluded:
		return "excluded"
	case OutcomeFailed:
		return "failed"
	default:
		return "missing"
	}
}

// LinkResult is the outcome of resolving a single field
type LinkResult struct {
	URL     string
	Outcome Outcome
	Err     error // reason when Outcome is not OutcomeFound
}

// Found reports whether URL should be recorded
func (r LinkResult) Found() bool {
	return r.Outcome == OutcomeFound
}

func missing(format string, args ...interface{}) LinkResult {
	return LinkResult{Outcome: OutcomeMissing, Err: fmt.Errorf(format, args...)}
}

func failed(err error) LinkResult {
	return LinkResult{Outcome: OutcomeFailed, Err: err}
}

// Resolver applies the link rules to the Summary paragraphs of a page
type Resolver struct {
	fetcher  *Fetcher
	siteHost string
}

// NewResolver creates a Resolver that follows links on siteHost with fetcher
func NewResolver(fetcher *Fetcher, siteHost string) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		siteHost: siteHost,
	}
}

// Regulator returns the href of the first link in the second Summary paragraph,
// exactly as written in the page
func (r *Resolver) Regulator(summary []*goquery.Selection) LinkResult {
	if len(summary) < 2 {
		return missing("summary has %d paragraphs, need 2", len(summary))
	}
	href, ok := FirstLink(summary[1])
	if !ok {
		return missing("no link in second summary paragraph")
	}
	return LinkResult{URL: href, Outcome: OutcomeFound}
}

// Regulation resolves the first link of the first Summary paragraph. Tracker
// links are excluded and links into the guidance site are followed once to their
// "View" link. Any other href is returned as written.
func (r *Resolver) Regulation(ctx context.Context, summary []*goquery.Selection) LinkResult {
	if len(summary) < 1 {
		return missing("summary has no paragraphs")
	}
	href, ok := FirstLink(summary[0])
	if !ok {
		return missing("no link in first summary paragraph")
	}
	if strings.Contains(href, TrackerMarker) {
		return LinkResult{
			URL:     href,
			Outcome: OutcomeExcluded,
			Err:     fmt.Errorf("link points to %s", TrackerMarker),
		}
	}

	if !r.isInternal(href) {
		return LinkResult{URL: href, Outcome: OutcomeFound}
	}

	return r.follow(ctx, href)
}

// follow fetches an internal regulation page and returns its "View" link
func (r *Resolver) follow(ctx context.Context, pageURL string) LinkResult {
	html, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return failed(err)
	}

	href, err := FindViewLink(html)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.URL = pageURL
			return LinkResult{Outcome: OutcomeMissing, Err: perr}
		}
		return failed(err)
	}

	abs, err := absolute(pageURL, href)
	if err != nil {
		return failed(err)
	}
	return LinkResult{URL: abs, Outcome: OutcomeFound}
}

// isInternal reports whether link is an absolute URL on the guidance site.
// Relative and unparsable links are never followed.
func (r *Resolver) isInternal(link string) bool {
	u, err := url.Parse(link)
	if err != nil || !u.IsAbs() {
		return false
	}
	return strings.Contains(strings.ToLower(u.Host), r.siteHost)
}

// absolute resolves href against base. Absolute hrefs are returned unchanged.
// Only used for the View link, whose page is known.
func absolute(base, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", href, err)
	}
	if ref.IsAbs() {
		return href, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing page URL %q: %w", base, err)
	}
	return b.ResolveReference(ref).String(), nil
}
