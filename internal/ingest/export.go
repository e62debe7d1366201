package ingest

import (
	"bytes"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-cli/internal/model"
)

// exportHeaders are the canonical columns written before custom variables.
var exportHeaders = []string{
	"Full Name", "Phone Number", "Email Address", "Country",
	"Time Zone", "Preferred Contact Method", "Status",
}

// ExportXLSX writes contacts to a single-sheet workbook named "Contacts".
// Custom variables become extra columns, sorted by name, so the output can
// be fed back through ParseFile.
func ExportXLSX(contacts []model.Contact) ([]byte, error) {
	extra := customHeaders(contacts)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range append(append([]string{}, exportHeaders...), extra...) {
		header.AddCell().SetString(h)
	}

	for _, c := range contacts {
		row := sheet.AddRow()
		for _, v := range []string{
			c.FullName, c.PhoneNumber, c.Email, c.Country, c.TimeZone,
			string(c.PreferredContactMethod), string(c.Status),
		} {
			row.AddCell().SetString(v)
		}
		for _, h := range extra {
			row.AddCell().SetString(c.CustomVariables[h])
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx: write workbook")
	}
	return buf.Bytes(), nil
}

func customHeaders(contacts []model.Contact) []string {
	set := make(map[string]struct{})
	for _, c := range contacts {
		for k := range c.CustomVariables {
			if _, std := standardHeaders[k]; std {
				continue
			}
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
