package jurisdiction

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ColumnName          = "state_name"
	ColumnRegulatorURL  = "regulator_url"
	ColumnRegulationURL = "regulation_url"
)

// Record is the view of one jurisdiction row. Empty URLs mean the value is unset.
type Record struct {
	Name          string `json:"state_name"`
	RegulatorURL  string `json:"regulator_url"`
	RegulationURL string `json:"regulation_url"`
}

// Update carries the fields to write into a row. Nil fields are left untouched.
type Update struct {
	RegulatorURL  *string
	RegulationURL *string
}

// IsEmpty reports whether the update would change nothing
func (u Update) IsEmpty() bool {
	return u.RegulatorURL == nil && u.RegulationURL == nil
}

// Normalize turns a jurisdiction name into its URL slug: lowercased with spaces
// replaced by hyphens ("New York" -> "new-york").
func Normalize(name string) string {
	return strings.ReplaceAll(cases.Lower(language.Und).String(name), " ", "-")
}
