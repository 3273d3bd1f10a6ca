package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/time/rate"
)

// summaryPage renders a jurisdiction page whose Summary paragraphs hold the given
// inner HTML.
func summaryPage(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><h1>Jurisdiction</h1><h2>Summary</h2><div class="views-field"><div class="field-content">`)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString(`</div></div><h2>News</h2></body></html>`)
	return b.String()
}

// site is a fake guidance site that serves fixed pages and counts requests
type site struct {
	mu     sync.Mutex
	pages  map[string]string
	hits   map[string]int
	server *httptest.Server
}

func newSite(t *testing.T, pages map[string]string) *site {
	t.Helper()
	s := &site{pages: pages, hits: make(map[string]int)}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "jurisdiction-links") {
			t.Errorf("User-Agent = %q, should contain 'jurisdiction-links'", ua)
		}
		s.mu.Lock()
		s.hits[r.URL.Path]++
		body, ok := s.pages[r.URL.Path]
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *site) setPages(pages map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = pages
}

func (s *site) url(path string) string {
	return s.server.URL + path
}

func (s *site) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *site) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

func unlimitedFetcher() *Fetcher {
	return NewFetcher(nil, rate.NewLimiter(rate.Inf, 1))
}

// newTestScraper points a Scraper at s, treating s as the guidance site
func newTestScraper(s *site) *Scraper {
	return New(
		WithFetcher(unlimitedFetcher()),
		WithBaseURL(s.url("/jurisdiction")),
		WithSiteHost("127.0.0.1"),
	)
}
