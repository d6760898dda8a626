/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: input.go
Description: Input readers that turn raw documents into normalized records. Provides
the Reader interface, format detection from file names, and the error types used to
report malformed input.
*/

package input

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kleascm/tabby/pkg/datatree"
)

// Format identifies an input encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

var (
	// ErrMalformedJSON reports JSON text that cannot be decoded
	ErrMalformedJSON = errors.New("malformed json")
	// ErrMalformedTable reports inconsistent delimited text
	ErrMalformedTable = errors.New("malformed delimited text")
	// ErrMalformedHTML reports HTML tables that cannot be read as records
	ErrMalformedHTML = errors.New("malformed html table")
	// ErrUnknownFormat is returned when no reader matches a format
	ErrUnknownFormat = errors.New("unknown input format")
)

// FormatError describes a malformed input. Line is 1-based when known;
// the JSON reader reports a byte Offset instead.
type FormatError struct {
	Format Format
	Line   int
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s input, line %d: %v", e.Format, e.Line, e.Err)
	case e.Offset > 0:
		return fmt.Sprintf("%s input, offset %d: %v", e.Format, e.Offset, e.Err)
	default:
		return fmt.Sprintf("%s input: %v", e.Format, e.Err)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Options configures the readers
type Options struct {
	// Delimiter separates fields in delimited text; zero means ','
	Delimiter rune
	// HTMLSelector picks the tables read from HTML; empty means "table"
	HTMLSelector string
	// CacheSize bounds the cell parse cache of the delimited-text reader
	CacheSize int
}

// DefaultOptions returns reader defaults
func DefaultOptions() Options {
	return Options{
		Delimiter:    ',',
		HTMLSelector: "table",
	}
}

// Reader decodes a whole input into records
type Reader interface {
	Read(r io.Reader) ([]datatree.Node, error)
	Format() Format
}

// NewReader returns the reader for format
func NewReader(format Format, opts Options) (Reader, error) {
	switch format {
	case FormatJSON:
		return NewJSONReader(), nil
	case FormatCSV:
		return NewCSVReader(opts), nil
	case FormatHTML:
		return NewHTMLReader(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ParseFormat validates a user-supplied format name
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "jsonl", "ndjson":
		return FormatJSON, nil
	case "csv", "tsv":
		return FormatCSV, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat infers the format from a file name's extension. The second
// result is the delimiter implied by the extension (tab for .tsv), or zero.
func DetectFormat(path string) (Format, rune, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, 0, true
	case ".csv", ".txt":
		return FormatCSV, 0, true
	case ".tsv", ".tab":
		return FormatCSV, '\t', true
	case ".html", ".htm":
		return FormatHTML, 0, true
	default:
		return "", 0, false
	}
}

// Title returns the file name without directory and extension, which the
// command line uses as the default schema title
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
