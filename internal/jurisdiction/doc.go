// Package jurisdiction provides the metadata table of jurisdictions and their
// regulator and regulation links.
//
// The table is keyed by the state_name column. Rows keep the column layout of the
// input file so that the output can be written back with the same schema plus the
// regulator_url and regulation_url columns.
package jurisdiction
