package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/jurisdiction-links/internal/jurisdiction"
	"github.com/pfrederiksen/jurisdiction-links/internal/logger"
)

const (
	JurisdictionBaseURL = "https://www.dataguidance.com/jurisdiction/"
)

// Result holds the resolved links of one jurisdiction page
type Result struct {
	Jurisdiction string
	PageURL      string
	Regulator    LinkResult
	Regulation   LinkResult
}

// Scraper handles fetching jurisdiction pages and resolving their links
type Scraper struct {
	fetcher  *Fetcher
	resolver *Resolver
	baseURL  string
	siteHost string
	metrics  *logger.Metrics
}

// Option configures a Scraper
type Option func(*Scraper)

// WithFetcher sets the fetcher used for jurisdiction and regulation pages
func WithFetcher(f *Fetcher) Option {
	return func(s *Scraper) {
		s.fetcher = f
	}
}

// WithBaseURL sets the URL prefix that normalized jurisdiction names are appended to
func WithBaseURL(base string) Option {
	return func(s *Scraper) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		s.baseURL = base
	}
}

// WithSiteHost sets the host fragment that marks a regulation link as internal
func WithSiteHost(host string) Option {
	return func(s *Scraper) {
		s.siteHost = host
	}
}

// WithMetrics sets the metrics tracker
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// New creates a Scraper against dataguidance.com
func New(opts ...Option) *Scraper {
	s := &Scraper{
		baseURL:  JurisdictionBaseURL,
		siteHost: SiteHost,
		metrics:  logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewFetcher(nil, nil)
	}
	s.resolver = NewResolver(s.fetcher, s.siteHost)
	return s
}

// JurisdictionURL builds the page URL for a jurisdiction name
func (s *Scraper) JurisdictionURL(name string) string {
	return s.baseURL + url.PathEscape(jurisdiction.Normalize(name))
}

// ScrapeJurisdiction fetches the page for name and resolves both links. A
// *FetchError or *ParseError means the page could not be used at all; link-level
// problems are reported in the Result instead.
func (s *Scraper) ScrapeJurisdiction(ctx context.Context, name string) (*Result, error) {
	pageURL := s.JurisdictionURL(name)
	logger.Debug("Normalized name", logger.Fields{
		"jurisdiction": name,
		"normalized":   jurisdiction.Normalize(name),
		"url":          pageURL,
	})

	start := time.Now()
	html, err := s.fetcher.Fetch(ctx, pageURL)
	s.metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		s.metrics.IncrCounter("pages.fetch_failed")
		return nil, err
	}
	s.metrics.IncrCounter("pages.fetched")

	summary, err := ParseSummary(html)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.URL = pageURL
		}
		s.metrics.IncrCounter("pages.parse_failed")
		return nil, err
	}

	result := &Result{
		Jurisdiction: name,
		PageURL:      pageURL,
		Regulator:    s.resolver.Regulator(summary),
		Regulation:   s.resolver.Regulation(ctx, summary),
	}
	s.metrics.IncrCounter("links.regulator." + result.Regulator.Outcome.String())
	s.metrics.IncrCounter("links.regulation." + result.Regulation.Outcome.String())

	return result, nil
}
