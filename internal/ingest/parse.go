package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// headerRowOffset converts a zero-based data index to the 1-based sheet row,
// accounting for the header row.
const headerRowOffset = 2

// Parse normalizes, validates and de-duplicates rows in order. A row is
// validated first, then checked for a reachable channel, then keyed on its
// (phone, email) pair; a failure at any step skips the later ones.
func Parse(rows []Row) *model.ParseResult {
	result := &model.ParseResult{
		Valid:      []model.Contact{},
		Invalid:    []model.InvalidRow{},
		Duplicates: []model.DuplicateRow{},
	}
	seen := make(map[string]int) // dedup key -> index in result.Valid

	for i, row := range rows {
		rowNum := i + headerRowOffset
		contact := NormalizeRow(row)

		if errs := ValidateContact(&contact); len(errs) > 0 {
			result.Invalid = append(result.Invalid, model.InvalidRow{
				Row:    rowNum,
				Data:   row.Map(),
				Errors: errorStrings(errs),
			})
			continue
		}

		if !contact.HasPhone() && !contact.HasEmail() {
			result.Invalid = append(result.Invalid, model.InvalidRow{
				Row:    rowNum,
				Data:   row.Map(),
				Errors: []string{errNoReachableChannel},
			})
			continue
		}

		key := contact.PhoneNumber + "-" + contact.Email
		if idx, dup := seen[key]; dup {
			result.Duplicates = append(result.Duplicates, model.DuplicateRow{
				Row:     rowNum,
				Contact: result.Valid[idx],
			})
			continue
		}
		seen[key] = len(result.Valid)
		result.Valid = append(result.Valid, contact)
	}

	return result
}

// ParseFile reads an uploaded sheet (XLSX, CSV or TSV) and ingests its rows.
// The first row of the first sheet is the header.
func ParseFile(ctx context.Context, filename string, data []byte) (*model.ParseResult, error) {
	table, err := ReadTable(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, eris.New("ingest: file has no header row")
	}

	rows := RowsFromTable(table[0], table[1:])
	result := Parse(rows)

	zap.L().Info("ingest: parsed contacts",
		zap.String("file", filename),
		zap.Int("rows", len(rows)),
		zap.Int("valid", len(result.Valid)),
		zap.Int("invalid", len(result.Invalid)),
		zap.Int("duplicates", len(result.Duplicates)),
	)

	return result, nil
}

// ReadTable decodes data into header + records. XLSX is recognized by its
// zip signature; anything else is read as delimited text.
func ReadTable(ctx context.Context, filename string, data []byte) ([][]string, error) {
	if isXLSX(data) {
		return ReadXLSX(data)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xls" {
		return nil, eris.Errorf("ingest: legacy .xls files are not supported, save %q as .xlsx or .csv", filename)
	}

	opts := CSVOptions{TrimSpace: true, LazyQuotes: true}
	if ext == ".tsv" {
		opts.Delimiter = '\t'
	} else {
		opts.Delimiter = sniffDelimiter(data)
	}
	return ReadCSV(ctx, data, opts)
}

func isXLSX(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "PK\x03\x04"
}
