/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: jsonschema.go
Description: JSON Schema (draft 2020-12) emission. Each descriptor branch becomes a
fragment; value sets are rendered as const, enum, or plain type according to the
configured heuristics, and several branches are combined with anyOf.
*/

package codegen

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/kleascm/tabby/pkg/inference"
	"github.com/kleascm/tabby/pkg/literal"
)

// Canonical order of primitive names in a type list; null goes last
var primitiveOrder = []literal.Kind{
	literal.KindBoolean,
	literal.KindInteger,
	literal.KindFloat,
	literal.KindString,
	literal.KindNull,
}

// JSONSchema renders descriptors as pretty-printed JSON Schema documents
type JSONSchema struct {
	opts Options
}

// NewJSONSchema creates a JSON Schema generator
func NewJSONSchema(opts Options) *JSONSchema {
	return &JSONSchema{opts: opts}
}

// Format returns the generator's format name
func (g *JSONSchema) Format() string { return FormatJSONSchema }

// Generate renders the document with two-space indentation and a trailing newline
func (g *JSONSchema) Generate(root inference.Subschema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Document(root, g.opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document builds the root fragment and adds the document-level keys
func Document(root inference.Subschema, opts Options) map[string]any {
	doc := Fragment(root, opts)
	doc["$schema"] = SchemaVersion
	if opts.Title != "" {
		doc["title"] = opts.Title
	}
	return doc
}

// Fragment builds the schema of one descriptor node. A node with no branch
// yields {}, one branch yields its fragment, several yield anyOf in
// types, array, object order.
func Fragment(s inference.Subschema, opts Options) map[string]any {
	fragments := make([]map[string]any, 0, 3)

	if s.Types != nil {
		fragments = append(fragments, typesFragment(s.Types, opts))
	}
	if s.Array != nil {
		fragments = append(fragments, map[string]any{
			"type":  "array",
			"items": Fragment(*s.Array, opts),
		})
	}
	if s.Object != nil {
		props := make(map[string]any, len(s.Object.Properties))
		for k, p := range s.Object.Properties {
			props[k] = Fragment(p.Value, opts)
		}
		fragments = append(fragments, map[string]any{
			"type":       "object",
			"properties": props,
			"required":   s.Object.RequiredKeys(),
		})
	}

	switch len(fragments) {
	case 0:
		return map[string]any{}
	case 1:
		return fragments[0]
	default:
		anyOf := make([]any, 0, len(fragments))
		for _, f := range fragments {
			anyOf = append(anyOf, f)
		}
		return map[string]any{"anyOf": anyOf}
	}
}

// typesFragment chooses between const, enum and plain type
func typesFragment(ts *inference.TypeSet, opts Options) map[string]any {
	distinct := ts.Distinct()

	if opts.UseConst && distinct == 1 {
		return map[string]any{"const": jsonValue(ts.Sorted()[0])}
	}

	designation := typeDesignation(ts)

	if opts.UseEnum && !allBoolean(ts) &&
		distinct < ts.Count*opts.EnumThreshold/100 &&
		(opts.EnumMaximum == 0 || distinct < opts.EnumMaximum) {
		values := ts.Sorted()
		enum := make([]any, 0, len(values))
		for _, v := range values {
			enum = append(enum, jsonValue(v))
		}
		return map[string]any{"type": designation, "enum": enum}
	}

	return map[string]any{"type": designation}
}

// PrimitiveNames returns the JSON Schema type names implied by a value set
// in canonical order
func PrimitiveNames(ts *inference.TypeSet) []string {
	present := make(map[literal.Kind]bool)
	for _, k := range ts.Kinds() {
		present[k] = true
	}
	names := make([]string, 0, len(present))
	for _, k := range primitiveOrder {
		if present[k] {
			names = append(names, k.PrimitiveName())
		}
	}
	return names
}

// typeDesignation is a single name, or a list when the set mixes kinds
func typeDesignation(ts *inference.TypeSet) any {
	names := PrimitiveNames(ts)
	if len(names) == 1 {
		return names[0]
	}
	return names
}

func allBoolean(ts *inference.TypeSet) bool {
	for v := range ts.Values {
		if v.Kind() != literal.KindBoolean {
			return false
		}
	}
	return true
}

// jsonValue converts a literal for encoding. Non-finite floats have no JSON
// representation and are rendered as their text form.
func jsonValue(l literal.Literal) any {
	if l.Kind() == literal.KindFloat {
		f := l.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return l.String()
		}
	}
	return l.Value()
}
