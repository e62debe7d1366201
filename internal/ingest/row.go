// Package ingest turns uploaded contact sheets into validated, de-duplicated contacts.
package ingest

import "strings"

// Cell is one header/value pair of a sheet row.
type Cell struct {
	Header string
	Value  string
}

// Row is a single data row keyed by the sheet's header row, in column order.
type Row []Cell

// Get returns the value stored under header, or "" when absent.
func (r Row) Get(header string) string {
	for _, c := range r {
		if c.Header == header {
			return c.Value
		}
	}
	return ""
}

// Map returns the row as a header → value map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, c := range r {
		m[c.Header] = c.Value
	}
	return m
}

// RowsFromTable pairs each data record with the header record. Columns with
// a blank header are dropped, as are records where every cell is blank.
func RowsFromTable(header []string, records [][]string) []Row {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, 0, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var v string
			if i < len(rec) {
				v = rec[i]
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			row = append(row, Cell{Header: h, Value: v})
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
