/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: literal.go
Description: Atomic scalar values observed in input records. A Literal is a small
comparable value (null, boolean, integer, float, string) that can be used directly
as a map key, which is how value sets are tracked during schema inference.
*/

package literal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Literal
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
)

// PrimitiveName returns the JSON Schema primitive type name for the kind
func (k Kind) PrimitiveName() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return k.PrimitiveName()
}

// Literal is a tagged scalar value.
//
// Floats are stored as their IEEE-754 bit pattern, so equality (==) and map
// hashing compare encodings rather than numeric values: NaN equals itself and
// 0.0 differs from -0.0.
type Literal struct {
	kind    Kind
	boolean bool
	integer int64
	bits    uint64
	str     string
}

// Null returns the null literal
func Null() Literal {
	return Literal{kind: KindNull}
}

// Bool returns a boolean literal
func Bool(b bool) Literal {
	return Literal{kind: KindBoolean, boolean: b}
}

// Int returns an integer literal
func Int(i int64) Literal {
	return Literal{kind: KindInteger, integer: i}
}

// Float returns a float literal keyed by the bit pattern of f
func Float(f float64) Literal {
	return Literal{kind: KindFloat, bits: math.Float64bits(f)}
}

// String returns a string literal
func String(s string) Literal {
	return Literal{kind: KindString, str: s}
}

// Kind returns the literal's variant
func (l Literal) Kind() Kind { return l.kind }

// IsNull reports whether the literal is null
func (l Literal) IsNull() bool { return l.kind == KindNull }

// Bool returns the boolean payload (false for other kinds)
func (l Literal) Bool() bool { return l.boolean }

// Int returns the integer payload (0 for other kinds)
func (l Literal) Int() int64 { return l.integer }

// Float returns the float payload (0 for other kinds)
func (l Literal) Float() float64 {
	if l.kind != KindFloat {
		return 0
	}
	return math.Float64frombits(l.bits)
}

// Bits returns the raw float encoding
func (l Literal) Bits() uint64 { return l.bits }

// Str returns the string payload (empty for other kinds)
func (l Literal) Str() string { return l.str }

// Value returns the literal as a plain Go value: nil, bool, int64, float64 or string
func (l Literal) Value() any {
	switch l.kind {
	case KindBoolean:
		return l.boolean
	case KindInteger:
		return l.integer
	case KindFloat:
		return l.Float()
	case KindString:
		return l.str
	default:
		return nil
	}
}

// String renders the literal for logs and summaries
func (l Literal) String() string {
	switch l.kind {
	case KindBoolean:
		return strconv.FormatBool(l.boolean)
	case KindInteger:
		return strconv.FormatInt(l.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(l.Float(), 'g', -1, 64)
	case KindString:
		return strconv.Quote(l.str)
	default:
		return "null"
	}
}

// GoString implements fmt.GoStringer so test failures read well
func (l Literal) GoString() string {
	return fmt.Sprintf("literal.%s(%s)", l.kind, l.String())
}

// Compare orders literals by kind and then by value. Floats are ordered
// numerically with NaN first; ties between distinct encodings (0.0 and -0.0)
// fall back to the bit pattern so the order stays total.
func Compare(a, b Literal) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindBoolean:
		switch {
		case a.boolean == b.boolean:
			return 0
		case !a.boolean:
			return -1
		default:
			return 1
		}
	case KindInteger:
		return cmpOrdered(a.integer, b.integer)
	case KindFloat:
		fa, fb := a.Float(), b.Float()
		switch {
		case math.IsNaN(fa) && math.IsNaN(fb):
			return cmpOrdered(a.bits, b.bits)
		case math.IsNaN(fa):
			return -1
		case math.IsNaN(fb):
			return 1
		}
		if c := cmpOrdered(fa, fb); c != 0 {
			return c
		}
		return cmpOrdered(a.bits, b.bits)
	case KindString:
		return strings.Compare(a.str, b.str)
	default:
		return 0
	}
}

func cmpOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two literals hold the same kind and encoding
func (l Literal) Equal(o Literal) bool {
	return l == o
}
