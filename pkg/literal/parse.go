/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: parse.go
Description: Heuristic classification of raw text cells and decoded JSON primitives
into literals. Handles keyword sets for null and booleans, and numbers written with
currency markers, thousands separators, signs, or accounting-style parentheses.
*/

package literal

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	nullWords  = map[string]bool{"null": true, "none": true, "nan": true}
	trueWords  = map[string]bool{"true": true, "yes": true}
	falseWords = map[string]bool{"false": true, "no": true}

	// Stripped before numeric tests. Spaces are thousands separators.
	numberNoise = strings.NewReplacer(" ", "", "$", "")

	integerPattern = regexp.MustCompile(`^(?:-[0-9]+|[0-9]+|\([0-9]+\))$`)
	floatPattern   = regexp.MustCompile(`^(?:-?[0-9]+\.[0-9]+|\([0-9]+\.[0-9]+\))$`)
)

// ParseText classifies a text cell. It never fails: anything that is not a
// recognised null, boolean or number is returned as a String literal holding
// the original, untrimmed text.
func ParseText(cell string) Literal {
	folded := strings.ToLower(strings.TrimSpace(cell))

	if folded == "" || nullWords[folded] {
		return Null()
	}
	if trueWords[folded] {
		return Bool(true)
	}
	if falseWords[folded] {
		return Bool(false)
	}

	stripped := numberNoise.Replace(folded)

	if integerPattern.MatchString(stripped) {
		digits, negative := unwrapSign(stripped)
		if negative {
			digits = "-" + digits
		}
		if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
			return Int(n)
		}
		// Out of int64 range: keep the text
		return String(cell)
	}

	if floatPattern.MatchString(stripped) {
		digits, negative := unwrapSign(stripped)
		if f, err := strconv.ParseFloat(digits, 64); err == nil {
			if negative {
				f = -f
			}
			return Float(f)
		}
	}

	return String(cell)
}

// unwrapSign removes a leading '-' or enclosing parentheses and reports
// whether either negation marker was present
func unwrapSign(s string) (string, bool) {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return s[1 : len(s)-1], true
	}
	if strings.HasPrefix(s, "-") {
		return s[1:], true
	}
	return s, false
}

// FromJSON converts a primitive produced by encoding/json into a literal.
// Numbers decoded with UseNumber keep the integer/float distinction of their
// source token; plain float64 values are always floats.
func FromJSON(v any) Literal {
	switch val := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case json.Number:
		return fromNumber(val)
	case float64:
		return Float(val)
	case float32:
		return Float(float64(val))
	case int:
		return Int(int64(val))
	case int64:
		return Int(val)
	case int32:
		return Int(int64(val))
	default:
		// Composite values are not literals; callers handle them first
		return Null()
	}
}

func fromNumber(n json.Number) Literal {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i)
		}
	}
	f, err := n.Float64()
	if err != nil {
		// Only reachable for numbers beyond float64 range
		return String(text)
	}
	return Float(f)
}
