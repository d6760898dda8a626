/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: walk.go
Description: Depth-first traversal of a Subschema, used to summarize descriptors.
*/

package inference

// Visit is called for every node reached by Walk. path uses "$" for the root,
// ".key" for object properties and "[]" for pooled array items. required is
// false only for object properties that are sometimes missing.
type Visit func(path string, node Subschema, required bool)

// Walk visits s and its descendants in a deterministic order: the node itself,
// then its array items, then object properties sorted by key.
func Walk(s Subschema, fn Visit) {
	walk("$", s, true, fn)
}

func walk(path string, s Subschema, required bool, fn Visit) {
	fn(path, s, required)

	if s.Array != nil {
		walk(path+"[]", *s.Array, true, fn)
	}
	if s.Object != nil {
		for _, k := range s.Object.Keys() {
			p := s.Object.Properties[k]
			walk(path+"."+k, p.Value, p.Required, fn)
		}
	}
}
