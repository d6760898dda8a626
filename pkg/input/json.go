/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON reader. Every top-level value in the stream is one record, so a
single document, JSON Lines, and concatenated documents are all accepted.
*/

package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kleascm/tabby/pkg/datatree"
)

// JSONReader decodes JSON values with number tokens preserved
type JSONReader struct{}

// NewJSONReader creates a JSON reader
func NewJSONReader() *JSONReader {
	return &JSONReader{}
}

// Format returns FormatJSON
func (r *JSONReader) Format() Format { return FormatJSON }

// Read decodes every top-level value into a record
func (r *JSONReader) Read(src io.Reader) ([]datatree.Node, error) {
	dec := json.NewDecoder(src)
	// Keep integer and float tokens distinguishable
	dec.UseNumber()

	var records []datatree.Node
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &FormatError{
					Format: FormatJSON,
					Offset: dec.InputOffset(),
					Err:    errors.Join(ErrMalformedJSON, err),
				}
			}
			return nil, fmt.Errorf("read json: %w", err)
		}
		records = append(records, datatree.FromJSON(v))
	}
}
