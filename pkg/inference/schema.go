/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: schema.go
Description: Structural descriptor accumulated across records. A Subschema has three
independent branches (literal types, pooled array items, object properties), each
either absent or present, and an associative, commutative merge that unions them
while tracking which object properties are sometimes missing.
*/

package inference

import (
	"sort"

	"github.com/kleascm/tabby/pkg/datatree"
	"github.com/kleascm/tabby/pkg/literal"
)

// TypeSet holds the distinct literal values seen at a node and how many
// literal instances contributed to it. Count is always >= len(Values).
type TypeSet struct {
	Values map[literal.Literal]struct{}
	Count  int
}

// NewTypeSet creates a type set from observed values, counting each argument
// as one instance
func NewTypeSet(values ...literal.Literal) *TypeSet {
	ts := &TypeSet{Values: make(map[literal.Literal]struct{}, len(values)), Count: len(values)}
	for _, v := range values {
		ts.Values[v] = struct{}{}
	}
	return ts
}

// Distinct returns the number of distinct values
func (ts *TypeSet) Distinct() int {
	return len(ts.Values)
}

// Sorted returns the distinct values ordered by literal.Compare
func (ts *TypeSet) Sorted() []literal.Literal {
	out := make([]literal.Literal, 0, len(ts.Values))
	for v := range ts.Values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return literal.Compare(out[i], out[j]) < 0 })
	return out
}

// Kinds returns the distinct literal kinds present, ascending
func (ts *TypeSet) Kinds() []literal.Kind {
	seen := make(map[literal.Kind]bool)
	for v := range ts.Values {
		seen[v.Kind()] = true
	}
	kinds := make([]literal.Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (ts *TypeSet) clone() *TypeSet {
	out := &TypeSet{Values: make(map[literal.Literal]struct{}, len(ts.Values)), Count: ts.Count}
	for v := range ts.Values {
		out.Values[v] = struct{}{}
	}
	return out
}

// ObjectProperty is one field of an object branch
type ObjectProperty struct {
	Value    Subschema
	Required bool
}

// ObjectShape is the object branch: every key ever observed at this node
type ObjectShape struct {
	Properties map[string]ObjectProperty
}

// Keys returns the property names in lexicographic order
func (o *ObjectShape) Keys() []string {
	keys := make([]string, 0, len(o.Properties))
	for k := range o.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequiredKeys returns the names of required properties in lexicographic order
func (o *ObjectShape) RequiredKeys() []string {
	keys := make([]string, 0, len(o.Properties))
	for k, p := range o.Properties {
		if p.Required {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Subschema is the accumulated structural descriptor of a node.
//
// A nil branch means the shape was never observed here; that is different
// from a present branch with empty content (an empty array or object, or a
// type set containing null).
type Subschema struct {
	Types  *TypeSet
	Array  *Subschema
	Object *ObjectShape
}

// IsEmpty reports whether no branch is present
func (s Subschema) IsEmpty() bool {
	return s.Types == nil && s.Array == nil && s.Object == nil
}

// Clone returns a deep copy sharing no mutable state with s
func (s Subschema) Clone() Subschema {
	var out Subschema
	if s.Types != nil {
		out.Types = s.Types.clone()
	}
	if s.Array != nil {
		item := s.Array.Clone()
		out.Array = &item
	}
	if s.Object != nil {
		props := make(map[string]ObjectProperty, len(s.Object.Properties))
		for k, p := range s.Object.Properties {
			props[k] = ObjectProperty{Value: p.Value.Clone(), Required: p.Required}
		}
		out.Object = &ObjectShape{Properties: props}
	}
	return out
}

// FromTree builds the minimal descriptor of a single tree. Array items are
// pooled into one item schema; every object key starts out required.
func FromTree(node datatree.Node) Subschema {
	switch n := node.(type) {
	case datatree.Scalar:
		return Subschema{Types: NewTypeSet(n.Value)}
	case datatree.Array:
		var items Subschema
		for _, child := range n {
			items.absorb(FromTree(child))
		}
		return Subschema{Array: &items}
	case datatree.Object:
		props := make(map[string]ObjectProperty, len(n))
		for k, child := range n {
			props[k] = ObjectProperty{Value: FromTree(child), Required: true}
		}
		return Subschema{Object: &ObjectShape{Properties: props}}
	default:
		return Subschema{}
	}
}

// Merge combines two descriptors into one describing the union of their
// observations. It is associative and commutative, never fails, and leaves
// both arguments untouched.
func Merge(a, b Subschema) Subschema {
	out := a.Clone()
	out.absorb(b.Clone())
	return out
}

// absorb merges o into s in place. s takes ownership of o's branches, so o
// must not be used afterwards.
func (s *Subschema) absorb(o Subschema) {
	if o.Types != nil {
		if s.Types == nil {
			s.Types = o.Types
		} else {
			for v := range o.Types.Values {
				s.Types.Values[v] = struct{}{}
			}
			s.Types.Count += o.Types.Count
		}
	}

	if o.Array != nil {
		if s.Array == nil {
			s.Array = o.Array
		} else {
			s.Array.absorb(*o.Array)
		}
	}

	if o.Object != nil {
		if s.Object == nil {
			s.Object = o.Object
			return
		}
		mine, theirs := s.Object.Properties, o.Object.Properties
		for k, p := range mine {
			if _, ok := theirs[k]; !ok {
				p.Required = false
				mine[k] = p
			}
		}
		for k, op := range theirs {
			p, ok := mine[k]
			if !ok {
				op.Required = false
				mine[k] = op
				continue
			}
			p.Value.absorb(op.Value)
			p.Required = p.Required && op.Required
			mine[k] = p
		}
	}
}
