package jurisdiction

import (
	"fmt"
)

// Table is the in-memory metadata table. It is not safe for concurrent use; the
// orchestration loop is its only writer.
type Table struct {
	header []string
	rows   [][]string
	cols   map[string]int
	index  map[string]int // name -> row
}

// NewTable builds a table from a header and its rows. The state_name column is
// required and its values must be unique. Rows may be shorter than the header but
// not longer. The regulator_url and regulation_url columns are appended when the
// header lacks them.
func NewTable(header []string, rows [][]string) (*Table, error) {
	t := &Table{
		header: append([]string(nil), header...),
		cols:   make(map[string]int, len(header)+2),
		index:  make(map[string]int, len(rows)),
	}

	for i, h := range t.header {
		if _, dup := t.cols[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		t.cols[h] = i
	}
	if _, ok := t.cols[ColumnName]; !ok {
		return nil, fmt.Errorf("missing required column %q", ColumnName)
	}
	for _, c := range []string{ColumnRegulatorURL, ColumnRegulationURL} {
		if _, ok := t.cols[c]; !ok {
			t.cols[c] = len(t.header)
			t.header = append(t.header, c)
		}
	}

	t.rows = make([][]string, 0, len(rows))
	for i, r := range rows {
		if len(r) > len(header) {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", i+1, len(r), len(header))
		}
		row := make([]string, len(t.header))
		copy(row, r)

		name := row[t.cols[ColumnName]]
		if name == "" {
			return nil, fmt.Errorf("row %d: empty %s", i+1, ColumnName)
		}
		if prev, dup := t.index[name]; dup {
			return nil, fmt.Errorf("row %d: duplicate %s %q (first seen in row %d)", i+1, ColumnName, name, prev+1)
		}
		t.index[name] = len(t.rows)
		t.rows = append(t.rows, row)
	}

	return t, nil
}

// Len returns the number of jurisdictions
func (t *Table) Len() int {
	return len(t.rows)
}

// Names returns the jurisdiction names in input order
func (t *Table) Names() []string {
	names := make([]string, len(t.rows))
	for i, row := range t.rows {
		names[i] = row[t.cols[ColumnName]]
	}
	return names
}

// Get returns the record for name
func (t *Table) Get(name string) (Record, bool) {
	i, ok := t.index[name]
	if !ok {
		return Record{}, false
	}
	return t.record(t.rows[i]), true
}

// Apply writes the non-nil fields of u into the row for name and returns the
// updated record. Fields absent from u keep their current values.
func (t *Table) Apply(name string, u Update) (Record, error) {
	i, ok := t.index[name]
	if !ok {
		return Record{}, fmt.Errorf("jurisdiction not found: %s", name)
	}
	row := t.rows[i]
	if u.RegulatorURL != nil {
		row[t.cols[ColumnRegulatorURL]] = *u.RegulatorURL
	}
	if u.RegulationURL != nil {
		row[t.cols[ColumnRegulationURL]] = *u.RegulationURL
	}
	return t.record(row), nil
}

// Header returns a copy of the column names
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// Rows returns a copy of all rows in input order
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (t *Table) record(row []string) Record {
	return Record{
		Name:          row[t.cols[ColumnName]],
		RegulatorURL:  row[t.cols[ColumnRegulatorURL]],
		RegulationURL: row[t.cols[ColumnRegulationURL]],
	}
}
