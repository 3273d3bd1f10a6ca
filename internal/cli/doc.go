// Package cli implements the command-line interface for jurisdiction-links.
//
// The root command loads the metadata table, scrapes every jurisdiction in it and
// checkpoints the merged table to the output file after each one. Flag defaults can
// be supplied through JURISDICTION_LINKS_* environment variables or a .env file.
package cli
