/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codegen.go
Description: Output generation for inferred descriptors. Defines the Generator
interface, the emission options shared by every renderer, and format selection.
*/

package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/tabby/pkg/inference"
)

// Output formats understood by NewGenerator
const (
	FormatJSONSchema = "json-schema"
	FormatYAML       = "yaml"
	FormatPython     = "python"
)

// SchemaVersion is the meta-schema URI placed at the document root
const SchemaVersion = "https://json-schema.org/draft/2020-12/schema"

// ErrUnsupportedFormat is returned by NewGenerator for unknown formats
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Generator renders a root descriptor as output text
type Generator interface {
	Generate(root inference.Subschema) ([]byte, error)
	Format() string
}

// Options controls how literal value sets are emitted
type Options struct {
	// Title is added to the document root when non-empty
	Title string
	// UseEnum allows enum output for low-cardinality value sets
	UseEnum bool
	// UseConst allows const output for single-valued sets
	UseConst bool
	// EnumThreshold is a percentage (0-100): an enum is emitted only when the
	// distinct count is below instances*EnumThreshold/100
	EnumThreshold int
	// EnumMaximum caps the distinct count of an enum; 0 means no cap
	EnumMaximum int
}

// DefaultOptions returns the emission defaults
func DefaultOptions() Options {
	return Options{
		UseEnum:       true,
		UseConst:      true,
		EnumThreshold: 10,
	}
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.EnumThreshold < 0 || o.EnumThreshold > 100 {
		return fmt.Errorf("enum threshold must be between 0 and 100, got %d", o.EnumThreshold)
	}
	if o.EnumMaximum < 0 {
		return fmt.Errorf("enum maximum must not be negative, got %d", o.EnumMaximum)
	}
	return nil
}

// NewGenerator returns the renderer for format
func NewGenerator(format string, opts Options) (Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case FormatJSONSchema, "json", "jsonschema", "":
		return NewJSONSchema(opts), nil
	case FormatYAML, "yml":
		return NewYAMLSchema(opts), nil
	case FormatPython, "py":
		return NewPython(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
