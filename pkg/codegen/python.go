/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: python.go
Description: Python dataclass generation. Every object branch becomes a @dataclass,
nested classes are written before the classes that reference them, and mixed shapes
are expressed as union annotations.
*/

package codegen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kleascm/tabby/pkg/inference"
	"github.com/kleascm/tabby/pkg/literal"
)

const pythonHeader = "from __future__ import annotations\n\nfrom dataclasses import dataclass\nfrom typing import Any\n"

var pythonTypes = map[literal.Kind]string{
	literal.KindNull:    "None",
	literal.KindBoolean: "bool",
	literal.KindInteger: "int",
	literal.KindFloat:   "float",
	literal.KindString:  "str",
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true,
	"def": true, "del": true, "elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
}

// Python renders descriptors as Python dataclasses
type Python struct {
	opts Options
}

// NewPython creates a Python dataclass generator
func NewPython(opts Options) *Python {
	return &Python{opts: opts}
}

// Format returns the generator's format name
func (g *Python) Format() string { return FormatPython }

// Generate writes the module text. The root object becomes a class named
// after the title (or Entry); when the root is not a plain object an alias
// named Root describes it.
func (g *Python) Generate(root inference.Subschema) ([]byte, error) {
	rootName := className(g.opts.Title)
	if rootName == "" {
		rootName = "Entry"
	}

	w := &pythonWriter{used: make(map[string]int)}
	expr := w.annotation(root, rootName)

	var out strings.Builder
	out.WriteString(pythonHeader)
	for _, class := range w.classes {
		out.WriteString("\n\n")
		out.WriteString(class)
	}
	if expr != rootName {
		out.WriteString("\n\n")
		fmt.Fprintf(&out, "%s = %s\n", w.unique("Root"), expr)
	}
	return []byte(out.String()), nil
}

type pythonWriter struct {
	classes []string
	used    map[string]int
}

// annotation returns the type expression for s, declaring classes for any
// object branches it reaches. name seeds the class name of an object branch.
func (w *pythonWriter) annotation(s inference.Subschema, name string) string {
	var parts []string

	if s.Types != nil {
		present := make(map[literal.Kind]bool)
		for _, k := range s.Types.Kinds() {
			present[k] = true
		}
		for _, k := range primitiveOrder {
			if present[k] {
				parts = append(parts, pythonTypes[k])
			}
		}
	}
	if s.Array != nil {
		item := w.annotation(*s.Array, name)
		parts = append(parts, "list["+item+"]")
	}
	if s.Object != nil {
		parts = append(parts, w.declare(s.Object, name))
	}

	if len(parts) == 0 {
		return "Any"
	}
	// None reads best at the end of a union
	for i, p := range parts {
		if p == "None" && i != len(parts)-1 {
			parts = append(append(parts[:i:i], parts[i+1:]...), "None")
			break
		}
	}
	return strings.Join(parts, " | ")
}

// declare emits a dataclass for obj and returns its unique name
func (w *pythonWriter) declare(obj *inference.ObjectShape, name string) string {
	name = w.unique(name)

	var required, optional []string
	fields := make(map[string]int)
	for _, key := range obj.Keys() {
		prop := obj.Properties[key]
		ident := claim(fields, fieldName(key), "_")

		seed := className(key)
		if seed == "" {
			seed = name + "Field"
		}
		expr := w.annotation(prop.Value, seed)
		if prop.Required {
			required = append(required, fmt.Sprintf("    %s: %s", ident, expr))
			continue
		}
		if !strings.Contains(expr, "None") && expr != "Any" {
			expr += " | None"
		}
		optional = append(optional, fmt.Sprintf("    %s: %s = None", ident, expr))
	}

	var body strings.Builder
	fmt.Fprintf(&body, "@dataclass\nclass %s:\n", name)
	lines := append(required, optional...)
	if len(lines) == 0 {
		body.WriteString("    pass\n")
	}
	for _, line := range lines {
		body.WriteString(line)
		body.WriteString("\n")
	}

	// Children were appended while building the fields, so they precede us
	w.classes = append(w.classes, body.String())
	return name
}

func (w *pythonWriter) unique(name string) string {
	return claim(w.used, name, "")
}

// claim returns name, or name with the next free numeric suffix, and marks
// the result as taken. used[name] holds the last suffix tried for name.
func claim(used map[string]int, name, sep string) string {
	candidate := name
	for used[candidate] > 0 {
		used[name]++
		candidate = fmt.Sprintf("%s%s%d", name, sep, used[name])
	}
	used[candidate]++
	return candidate
}

// className converts an arbitrary key into CamelCase
func className(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out != "" && unicode.IsDigit([]rune(out)[0]) {
		out = "C" + out
	}
	return out
}

// fieldName converts an arbitrary key into a valid Python identifier
func fieldName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := b.String()
	switch {
	case out == "":
		return "field"
	case unicode.IsDigit([]rune(out)[0]):
		return "_" + out
	case pythonKeywords[out]:
		return out + "_"
	}
	return out
}
