/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: datatree.go
Description: Uniform hierarchical representation of one input record. Decoded JSON
values and tabular rows are both normalized into trees of scalars, ordered arrays
and keyed objects before schema inference consumes them.
*/

package datatree

import (
	"github.com/kleascm/tabby/pkg/literal"
)

// Node is one of Scalar, Array or Object
type Node interface {
	isNode()
}

// Scalar wraps a single literal value
type Scalar struct {
	Value literal.Literal
}

// Array is an ordered sequence of nodes
type Array []Node

// Object maps field names to nodes
type Object map[string]Node

func (Scalar) isNode() {}
func (Array) isNode()  {}
func (Object) isNode() {}

// Lit is shorthand for a Scalar node
func Lit(l literal.Literal) Node {
	return Scalar{Value: l}
}

// FromJSON normalizes a value produced by encoding/json (ideally decoded with
// UseNumber) into a tree. Every object key is retained and array order is kept.
func FromJSON(v any) Node {
	switch val := v.(type) {
	case map[string]any:
		obj := make(Object, len(val))
		for k, child := range val {
			obj[k] = FromJSON(child)
		}
		return obj
	case []any:
		arr := make(Array, 0, len(val))
		for _, child := range val {
			arr = append(arr, FromJSON(child))
		}
		return arr
	default:
		return Scalar{Value: literal.FromJSON(val)}
	}
}

// FromTable turns a header row and data rows into one Array holding an Object
// per row. Each cell is classified with parse. A row shorter than the header
// yields Null for the missing trailing cells; cells beyond the header are
// ignored, readers are expected to reject such rows before normalization.
func FromTable(headers []string, rows [][]string, parse func(string) literal.Literal) Array {
	if parse == nil {
		parse = literal.ParseText
	}

	table := make(Array, 0, len(rows))
	for _, row := range rows {
		obj := make(Object, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = Scalar{Value: parse(row[i])}
			} else {
				obj[h] = Scalar{Value: literal.Null()}
			}
		}
		table = append(table, obj)
	}
	return table
}
