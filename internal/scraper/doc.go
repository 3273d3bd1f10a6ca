// Package scraper fetches dataguidance.com jurisdiction pages and extracts the
// regulator and regulation links from their Summary section.
//
// A jurisdiction page carries an h2 "Summary" heading followed by a
// div.field-content block. The first paragraph of that block links to the
// regulation and the second to the regulator. Regulation links that point back
// into dataguidance.com are resolved with one more fetch, taking the target of the
// page's "View" link.
package scraper
