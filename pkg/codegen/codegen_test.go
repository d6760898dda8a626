/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codegen_test.go
Description: Tests for schema emission: const/enum/plain selection, branch
combination, root keys, the tabular end-to-end example, and the YAML and Python
renderers.
*/

package codegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/kleascm/tabby/pkg/datatree"
	"github.com/kleascm/tabby/pkg/inference"
	"github.com/kleascm/tabby/pkg/literal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func inferJSON(t *testing.T, docs ...string) inference.Subschema {
	t.Helper()
	r := inference.NewReducer()
	for _, d := range docs {
		var v any
		dec := json.NewDecoder(strings.NewReader(d))
		dec.UseNumber()
		require.NoError(t, dec.Decode(&v))
		r.AddTree(datatree.FromJSON(v))
	}
	return r.Result()
}

func generateJSON(t *testing.T, root inference.Subschema, opts Options) map[string]any {
	t.Helper()
	out, err := NewJSONSchema(opts).Generate(root)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	return doc
}

func TestConstRoundTrip(t *testing.T) {
	s := inference.FromTree(datatree.Lit(literal.Int(5)))

	frag, err := json.Marshal(Fragment(s, DefaultOptions()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"const":5}`, string(frag))

	doc := generateJSON(t, s, Options{UseConst: true, Title: "five"})
	assert.Equal(t, map[string]any{
		"const":   float64(5),
		"$schema": SchemaVersion,
		"title":   "five",
	}, doc)
}

func TestConstIgnoresInstanceCount(t *testing.T) {
	s := inferJSON(t, `"x"`, `"x"`, `"x"`)
	assert.Equal(t, map[string]any{"const": "x"}, Fragment(s, DefaultOptions()))

	opts := DefaultOptions()
	opts.UseConst = false
	assert.Equal(t, map[string]any{"type": "string"}, Fragment(s, opts))
}

func tenRecordsTwoValues(t *testing.T) inference.Subschema {
	docs := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		docs = append(docs, fmt.Sprintf(`{"f": %q}`, []string{"a", "b"}[i%2]))
	}
	return inferJSON(t, docs...)
}

func TestEnumThresholdBoundary(t *testing.T) {
	root := tenRecordsTwoValues(t)

	opts := Options{UseEnum: true, UseConst: true, EnumThreshold: 40}
	f := Fragment(root, opts)["properties"].(map[string]any)["f"]
	assert.Equal(t, map[string]any{"type": "string", "enum": []any{"a", "b"}}, f)

	opts.EnumThreshold = 10
	f = Fragment(root, opts)["properties"].(map[string]any)["f"]
	assert.Equal(t, map[string]any{"type": "string"}, f)
}

func TestEnumMaximum(t *testing.T) {
	root := tenRecordsTwoValues(t)

	opts := Options{UseEnum: true, EnumThreshold: 100, EnumMaximum: 2}
	f := Fragment(root, opts)["properties"].(map[string]any)["f"]
	assert.Equal(t, map[string]any{"type": "string"}, f, "2 is not below a maximum of 2")

	opts.EnumMaximum = 3
	f = Fragment(root, opts)["properties"].(map[string]any)["f"]
	assert.Contains(t, f, "enum")
}

func TestEnumDisabled(t *testing.T) {
	root := tenRecordsTwoValues(t)
	opts := Options{UseEnum: false, EnumThreshold: 100}
	f := Fragment(root, opts)["properties"].(map[string]any)["f"]
	assert.Equal(t, map[string]any{"type": "string"}, f)
}

func TestBooleansNeverEnum(t *testing.T) {
	docs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		docs = append(docs, fmt.Sprintf("%t", i%2 == 0))
	}
	root := inferJSON(t, docs...)
	opts := Options{UseEnum: true, EnumThreshold: 100}
	assert.Equal(t, map[string]any{"type": "boolean"}, Fragment(root, opts))
}

func TestEnumWithMixedKinds(t *testing.T) {
	docs := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		docs = append(docs, []string{`1`, `"one"`, `null`}[i%3])
	}
	root := inferJSON(t, docs...)
	opts := Options{UseEnum: true, EnumThreshold: 50}
	assert.Equal(t, map[string]any{
		"type": []string{"integer", "string", "null"},
		"enum": []any{nil, int64(1), "one"},
	}, Fragment(root, opts))
}

func TestCSVEndToEnd(t *testing.T) {
	table := datatree.FromTable(
		[]string{"id", "active"},
		[][]string{{"1", "true"}, {"2", "false"}, {"3", ""}},
		literal.ParseText,
	)
	root := inference.Infer([]datatree.Node{table})

	doc := generateJSON(t, root, DefaultOptions())
	assert.Equal(t, SchemaVersion, doc["$schema"])
	assert.Equal(t, "array", doc["type"])

	items := doc["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.Equal(t, []any{"active", "id"}, items["required"])

	props := items["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer"}, props["id"])
	assert.Equal(t, map[string]any{"type": []any{"boolean", "null"}}, props["active"])
}

func TestMixedShapeDisjunction(t *testing.T) {
	root := inferJSON(t, `{"x": 1}`, `{"x": {"y": true}}`)
	opts := DefaultOptions()
	opts.UseConst = false

	x := Fragment(root, opts)["properties"].(map[string]any)["x"]
	assert.Equal(t, map[string]any{"anyOf": []any{
		map[string]any{"type": "integer"},
		map[string]any{
			"type":       "object",
			"properties": map[string]any{"y": map[string]any{"type": "boolean"}},
			"required":   []string{"y"},
		},
	}}, x)
}

func TestAnyOfOrderTypesArrayObject(t *testing.T) {
	root := inferJSON(t, `{"a": 1}`, `[1]`, `"s"`)
	frag := Fragment(root, Options{})
	anyOf := frag["anyOf"].([]any)
	require.Len(t, anyOf, 3)
	assert.Equal(t, "string", anyOf[0].(map[string]any)["type"])
	assert.Equal(t, "array", anyOf[1].(map[string]any)["type"])
	assert.Equal(t, "object", anyOf[2].(map[string]any)["type"])
}

func TestEmptyRootAndEmptyItems(t *testing.T) {
	doc := generateJSON(t, inference.Subschema{}, DefaultOptions())
	assert.Equal(t, map[string]any{"$schema": SchemaVersion}, doc)

	doc = generateJSON(t, inferJSON(t, `[]`), DefaultOptions())
	assert.Equal(t, map[string]any{}, doc["items"])
}

func TestOptionalPropertiesLeaveRequired(t *testing.T) {
	root := inferJSON(t, `{"a": 1, "b": 2}`, `{"a": 3}`)
	frag := Fragment(root, DefaultOptions())
	assert.Equal(t, []string{"a"}, frag["required"])

	root = inferJSON(t, `{"a": 1}`, `{"b": 3}`)
	frag = Fragment(root, DefaultOptions())
	assert.Equal(t, []string{}, frag["required"])
}

func TestNonFiniteFloatsStillEncode(t *testing.T) {
	s := inference.FromTree(datatree.Lit(literal.Float(math.Inf(1))))
	out, err := NewJSONSchema(DefaultOptions()).Generate(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"const": "+Inf"`)
}

func TestJSONOutputIsIndented(t *testing.T) {
	out, err := NewJSONSchema(DefaultOptions()).Generate(inferJSON(t, `{"a": "<b>"}`))
	require.NoError(t, err)
	text := string(out)
	assert.True(t, strings.HasPrefix(text, "{\n  \"$schema\""))
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, `"const": "<b>"`)
}

func TestYAMLMatchesJSONDocument(t *testing.T) {
	root := inferJSON(t, `{"name": "a", "n": 1}`, `{"name": "b", "n": 2.5}`)
	opts := DefaultOptions()
	opts.Title = "people"

	out, err := NewYAMLSchema(opts).Generate(root)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, SchemaVersion, doc["$schema"])
	assert.Equal(t, "people", doc["title"])
	assert.Equal(t, "object", doc["type"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": []any{"integer", "number"}}, props["n"])
	assert.Equal(t, map[string]any{"type": "string"}, props["name"])
}

func TestPythonTabularOutput(t *testing.T) {
	table := datatree.FromTable(
		[]string{"id", "active"},
		[][]string{{"1", "true"}, {"2", "false"}, {"3", ""}},
		literal.ParseText,
	)
	out, err := NewPython(DefaultOptions()).Generate(inference.Infer([]datatree.Node{table}))
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, pythonHeader))
	assert.Contains(t, text, "@dataclass\nclass Entry:\n    active: bool | None\n    id: int\n")
	assert.True(t, strings.HasSuffix(text, "Root = list[Entry]\n"))
}

func TestPythonNestedAndOptional(t *testing.T) {
	root := inferJSON(t,
		`{"id": 1, "user profile": {"name": "a"}, "class": "x"}`,
		`{"id": 2, "user profile": {"name": "b"}}`,
	)
	opts := DefaultOptions()
	opts.Title = "account"

	out, err := NewPython(opts).Generate(root)
	require.NoError(t, err)
	text := string(out)

	nested := strings.Index(text, "class UserProfile:")
	parent := strings.Index(text, "class Account:")
	require.GreaterOrEqual(t, nested, 0)
	require.GreaterOrEqual(t, parent, 0)
	assert.Less(t, nested, parent, "nested classes come first")

	assert.Contains(t, text, "class Account:\n    id: int\n    user_profile: UserProfile\n    class_: str | None = None\n")
	assert.NotContains(t, text, "Root =")
}

func TestPythonClassNamesStayUnique(t *testing.T) {
	root := inferJSON(t, `{"x": {"a": {"p": 1}}, "y": {"a": {"q": "s"}}, "z": {"a2": {"r": true}}}`)
	out, err := NewPython(DefaultOptions()).Generate(root)
	require.NoError(t, err)
	text := string(out)

	for _, class := range []string{"class A:", "class A2:", "class A22:", "class X:", "class Y:", "class Z:"} {
		assert.Equal(t, 1, strings.Count(text, class+"\n"), class)
	}
	assert.Contains(t, text, "class A:\n    p: int\n")
	assert.Contains(t, text, "class A2:\n    q: str\n")
	assert.Contains(t, text, "class A22:\n    r: bool\n")
	assert.Contains(t, text, "class Y:\n    a: A2\n")
	assert.Contains(t, text, "class Z:\n    a2: A22\n")
}

func TestPythonFieldNamesStayUnique(t *testing.T) {
	root := inferJSON(t, `{"a-b": 1, "a_b": "s", "a_b_2": true}`)
	out, err := NewPython(DefaultOptions()).Generate(root)
	require.NoError(t, err)

	assert.Contains(t, string(out), "class Entry:\n    a_b: int\n    a_b_2: str\n    a_b_2_2: bool\n")
}

func TestPythonRootAliasAvoidsClassNames(t *testing.T) {
	root := inferJSON(t, `[{"root": {"v": 1}}]`)
	out, err := NewPython(DefaultOptions()).Generate(root)
	require.NoError(t, err)
	text := string(out)

	assert.Equal(t, 1, strings.Count(text, "class Root:\n"))
	assert.True(t, strings.HasSuffix(text, "Root2 = list[Entry]\n"))
}

func TestPythonEmptyObject(t *testing.T) {
	out, err := NewPython(Options{}).Generate(inferJSON(t, `{}`))
	require.NoError(t, err)
	assert.Contains(t, string(out), "class Entry:\n    pass\n")
}

func TestNewGenerator(t *testing.T) {
	for format, want := range map[string]string{
		"json-schema": FormatJSONSchema,
		"json":        FormatJSONSchema,
		"YAML":        FormatYAML,
		"python":      FormatPython,
	} {
		g, err := NewGenerator(format, DefaultOptions())
		require.NoError(t, err, format)
		assert.Equal(t, want, g.Format())
	}

	_, err := NewGenerator("xml", DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = NewGenerator("json", Options{EnumThreshold: 101})
	assert.Error(t, err)
	_, err = NewGenerator("json", Options{EnumMaximum: -1})
	assert.Error(t, err)
}
