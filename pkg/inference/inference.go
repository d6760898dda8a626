/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Main entry point for structural schema inference. Folds the descriptors
of many records into one root Subschema, either in one call (Infer) or incrementally
through a Reducer that owns the evolving descriptor.
*/

package inference

import (
	"github.com/kleascm/tabby/pkg/datatree"
)

// Reducer folds descriptors into a single root. It owns the accumulated
// Subschema and merges in place, so each Add costs the size of the added
// descriptor rather than the size of everything seen so far.
type Reducer struct {
	root    Subschema
	records int
}

// NewReducer creates an empty reducer
func NewReducer() *Reducer {
	return &Reducer{}
}

// Add merges s into the root. The reducer takes ownership of s; callers must
// not modify or reuse it afterwards.
func (r *Reducer) Add(s Subschema) {
	r.root.absorb(s)
	r.records++
}

// AddTree builds the descriptor of one record and merges it into the root
func (r *Reducer) AddTree(node datatree.Node) {
	r.Add(FromTree(node))
}

// Records returns the number of descriptors folded so far
func (r *Reducer) Records() int {
	return r.records
}

// Result returns the root descriptor. The reducer must not be used after
// calling Result; the returned value is handed over to the caller.
func (r *Reducer) Result() Subschema {
	out := r.root
	r.root = Subschema{}
	return out
}

// Infer folds every record into one root descriptor. Zero records yield a
// Subschema with no branch present.
func Infer(records []datatree.Node) Subschema {
	r := NewReducer()
	for _, rec := range records {
		r.AddTree(rec)
	}
	return r.Result()
}
