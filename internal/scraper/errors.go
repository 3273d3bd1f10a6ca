package scraper

import (
	"fmt"
)

// FetchError reports a failed page fetch: a transport failure or a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int    // 0 when no response was received
	Body       string // leading part of the response body, if any
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a page whose layout lacks the expected structure.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return "parsing page: " + e.Reason
	}
	return fmt.Sprintf("parsing %s: %s", e.URL, e.Reason)
}
