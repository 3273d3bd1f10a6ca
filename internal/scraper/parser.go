package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	SummaryHeading = "Summary"
	ViewLinkText   = "View"

	headingTag     = "h2"
	contentClass   = "field-content"
	contentElement = "div." + contentClass
)

// ParseSummary returns the paragraphs of the Summary section in document order.
// The section is the first div.field-content following the first h2 whose text is
// exactly "Summary". A page without either element yields a *ParseError; a container
// without paragraphs yields an empty slice.
func ParseSummary(html string) ([]*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("parsing HTML: %v", err)}
	}

	content, err := summaryContent(doc)
	if err != nil {
		return nil, err
	}

	paragraphs := make([]*goquery.Selection, 0)
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		paragraphs = append(paragraphs, p)
	})
	return paragraphs, nil
}

// summaryContent locates the content container after the Summary heading.
// Headings and containers are walked together in document order so that
// "after" covers siblings, descendants and anything later in the page.
func summaryContent(doc *goquery.Document) (*goquery.Selection, error) {
	var (
		foundHeading bool
		content      *goquery.Selection
	)

	doc.Find(headingTag + ", " + contentElement).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !foundHeading {
			if goquery.NodeName(sel) == headingTag && sel.Text() == SummaryHeading {
				foundHeading = true
			}
			return true
		}
		if sel.Is(contentElement) {
			content = sel
			return false
		}
		return true
	})

	if !foundHeading {
		return nil, &ParseError{Reason: fmt.Sprintf("no %s heading %q", headingTag, SummaryHeading)}
	}
	if content == nil {
		return nil, &ParseError{Reason: fmt.Sprintf("no %s after %q heading", contentElement, SummaryHeading)}
	}
	return content, nil
}

// FirstLink returns the href of the first anchor inside sel. It reports false
// when there is no anchor or the first anchor has no href.
func FirstLink(sel *goquery.Selection) (string, bool) {
	if sel == nil {
		return "", false
	}
	a := sel.Find("a").First()
	if a.Length() == 0 {
		return "", false
	}
	return a.Attr("href")
}

// FindViewLink returns the href of the first anchor whose text is exactly "View"
func FindViewLink(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &ParseError{Reason: fmt.Sprintf("parsing HTML: %v", err)}
	}

	var (
		href  string
		found bool
	)
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if a.Text() != ViewLinkText {
			return true
		}
		href, found = a.Attr("href")
		return false
	})

	if !found {
		return "", &ParseError{Reason: fmt.Sprintf("no %q link", ViewLinkText)}
	}
	return href, nil
}
