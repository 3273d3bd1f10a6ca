// Package pipeline runs the per-jurisdiction scrape-and-merge loop.
//
// Jurisdictions are processed one at a time in table order. Each one is fetched,
// its links resolved and merged into the table, and the whole table checkpointed
// to disk before the next jurisdiction starts.
package pipeline
