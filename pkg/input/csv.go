/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: csv.go
Description: Delimited-text reader. The first row names the columns, every later row
becomes an object, and the whole table is returned as a single record. Byte order
marks (UTF-8 or UTF-16) are honoured and header names are NFC-normalized.
*/

package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/tabby/pkg/datatree"
	"github.com/kleascm/tabby/pkg/literal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CSVReader reads delimited text
type CSVReader struct {
	delimiter rune
	cacheSize int
}

// NewCSVReader creates a delimited-text reader. A zero delimiter selects ','.
func NewCSVReader(opts Options) *CSVReader {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	return &CSVReader{delimiter: delim, cacheSize: opts.CacheSize}
}

// Format returns FormatCSV
func (r *CSVReader) Format() Format { return FormatCSV }

// Delimiter returns the field separator in use
func (r *CSVReader) Delimiter() rune { return r.delimiter }

// Read parses the whole table. Empty input yields no records; a header with
// no data rows yields one empty table.
func (r *CSVReader) Read(src io.Reader) ([]datatree.Node, error) {
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap(err)
	}

	headers, err := normalizeHeaders(header)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, r.wrap(err)
		}
		if len(row) > len(headers) {
			line, _ := cr.FieldPos(0)
			return nil, &FormatError{
				Format: FormatCSV,
				Line:   line,
				Err:    fmt.Errorf("%w: row has %d fields, header has %d", ErrMalformedTable, len(row), len(headers)),
			}
		}
		rows = append(rows, row)
	}

	parser := literal.NewCachedParser(r.cacheSize)
	return []datatree.Node{datatree.FromTable(headers, rows, parser.Parse)}, nil
}

// wrap converts encoding/csv parse errors into format errors and passes
// I/O failures through
func (r *CSVReader) wrap(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &FormatError{
			Format: FormatCSV,
			Line:   parseErr.Line,
			Err:    fmt.Errorf("%w: %v", ErrMalformedTable, parseErr.Err),
		}
	}
	return fmt.Errorf("read delimited text: %w", err)
}

func normalizeHeaders(raw []string) ([]string, error) {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(norm.NFC.String(h))
		if seen[h] {
			return nil, &FormatError{
				Format: FormatCSV,
				Line:   1,
				Err:    fmt.Errorf("%w: duplicate header %q", ErrMalformedTable, h),
			}
		}
		seen[h] = true
		headers[i] = h
	}
	return headers, nil
}
