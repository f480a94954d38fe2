// Package csvimport turns an uploaded roster export into header-keyed rows.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/brandonnguyen11/rosterAI/pkg/apperrors"
)

// utf8BOM is stripped from the start of the file; spreadsheet exports often carry it.
var utf8BOM = []byte("\xef\xbb\xbf")

// RawRow maps a trimmed header to the cell found under it.
// When a header repeats, the last cell wins.
type RawRow map[string]string

// Parse reads CSV content into one RawRow per non-blank data line, in file order.
//
// The first non-blank line is the header. Rows shorter than the header are
// padded with empty cells and extra trailing cells are dropped. A row the
// reader cannot make sense of degrades to all-empty cells instead of aborting
// the import. Only a missing or unreadable header is an error.
func Parse(content []byte) ([]RawRow, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	rows := make([]RawRow, 0)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				// Not a row-level problem; keep what was read so far.
				break
			}
			rows = append(rows, emptyRow(headers))
			continue
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, toRow(headers, record))
	}

	return rows, nil
}

// readHeader returns the trimmed column names from the first non-blank line.
func readHeader(r *csv.Reader) ([]string, error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no header row", apperrors.ErrParse)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrParse, err)
		}
		if isBlank(record) {
			continue
		}

		headers := make([]string, len(record))
		for i, h := range record {
			headers[i] = strings.TrimSpace(h)
		}
		return headers, nil
	}
}

func toRow(headers, record []string) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func emptyRow(headers []string) RawRow {
	row := make(RawRow, len(headers))
	for _, h := range headers {
		row[h] = ""
	}
	return row
}

// isBlank reports whether a record came from an all-whitespace line.
// encoding/csv already drops truly empty lines; a line of spaces arrives as a
// single whitespace-only field. A line of bare delimiters is not blank.
func isBlank(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}
