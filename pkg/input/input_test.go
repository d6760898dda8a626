/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: input_test.go
Description: Tests for the JSON, delimited-text and HTML readers and for format
detection.
*/

package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/kleascm/tabby/pkg/datatree"
	"github.com/kleascm/tabby/pkg/literal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalar(l literal.Literal) datatree.Node {
	return datatree.Scalar{Value: l}
}

func TestJSONReaderOneRecordPerValue(t *testing.T) {
	src := "{\"a\": 1}\n{\"a\": 2.5}\n\n[true]\n"
	records, err := NewJSONReader().Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, datatree.Object{"a": scalar(literal.Int(1))}, records[0])
	assert.Equal(t, datatree.Object{"a": scalar(literal.Float(2.5))}, records[1])
	assert.Equal(t, datatree.Array{scalar(literal.Bool(true))}, records[2])
}

func TestJSONReaderEmptyInput(t *testing.T) {
	records, err := NewJSONReader().Read(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJSONReaderMalformed(t *testing.T) {
	for name, src := range map[string]string{
		"truncated": `{"a": `,
		"syntax":    `{"a": x}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewJSONReader().Read(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedJSON))

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, FormatJSON, fe.Format)
		})
	}
}

func TestCSVReaderTable(t *testing.T) {
	src := "id,price,note\n1,$1 200,hello\n2,(3.5),\n"
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, datatree.Array{
		datatree.Object{
			"id":    scalar(literal.Int(1)),
			"price": scalar(literal.Int(1200)),
			"note":  scalar(literal.String("hello")),
		},
		datatree.Object{
			"id":    scalar(literal.Int(2)),
			"price": scalar(literal.Float(-3.5)),
			"note":  scalar(literal.Null()),
		},
	}, records[0])
}

func TestCSVReaderStripsByteOrderMark(t *testing.T) {
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader("\xEF\xBB\xBFid\n7\n"))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{datatree.Object{"id": scalar(literal.Int(7))}}, records[0])
}

func TestCSVReaderDecodesUTF16(t *testing.T) {
	// "id\n7\n" in UTF-16LE with a byte order mark
	src := string([]byte{0xFF, 0xFE, 'i', 0, 'd', 0, '\n', 0, '7', 0, '\n', 0})
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{datatree.Object{"id": scalar(literal.Int(7))}}, records[0])
}

func TestCSVReaderNormalizesHeaders(t *testing.T) {
	// "café" with a combining acute accent, padded with spaces
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader(" cafe\u0301 \nx\n"))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{datatree.Object{"caf\u00e9": scalar(literal.String("x"))}}, records[0])
}

func TestCSVReaderTabDelimited(t *testing.T) {
	format, delim, ok := DetectFormat("data/people.tsv")
	require.True(t, ok)
	assert.Equal(t, FormatCSV, format)
	assert.Equal(t, '\t', delim)

	opts := DefaultOptions()
	opts.Delimiter = delim
	records, err := NewCSVReader(opts).Read(strings.NewReader("a\tb\n1\tyes\n"))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{datatree.Object{
		"a": scalar(literal.Int(1)),
		"b": scalar(literal.Bool(true)),
	}}, records[0])
}

func TestCSVReaderShortRowsPadWithNull(t *testing.T) {
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader("a,b\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{datatree.Object{
		"a": scalar(literal.Int(1)),
		"b": scalar(literal.Null()),
	}}, records[0])
}

func TestCSVReaderEmptyAndHeaderOnly(t *testing.T) {
	records, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = NewCSVReader(DefaultOptions()).Read(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, datatree.Array{}, records[0])
}

func TestCSVReaderRejectsLongRows(t *testing.T) {
	_, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader("a,b\n1,2\n1,2,3\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTable))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Line)
	assert.Contains(t, err.Error(), "line 3")
}

func TestCSVReaderRejectsDuplicateHeaders(t *testing.T) {
	_, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader("a, a\n1,2\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTable))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Line)
}

func TestCSVReaderRejectsBadQuoting(t *testing.T) {
	_, err := NewCSVReader(DefaultOptions()).Read(strings.NewReader("a,b\n1,\"x\"y\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTable))
}

const htmlPage = `<html><body>
<table id="people">
  <tr><th>name</th><th>age</th></tr>
  <tr><td> Ada </td><td>36</td></tr>
  <tr><td>Alan</td><td></td></tr>
</table>
<p>between</p>
<table class="totals">
  <thead><tr><th>total</th></tr></thead>
  <tbody><tr><td>$1 000</td></tr></tbody>
</table>
</body></html>`

func TestHTMLReaderTables(t *testing.T) {
	records, err := NewHTMLReader(DefaultOptions()).Read(strings.NewReader(htmlPage))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, datatree.Array{
		datatree.Object{"name": scalar(literal.String("Ada")), "age": scalar(literal.Int(36))},
		datatree.Object{"name": scalar(literal.String("Alan")), "age": scalar(literal.Null())},
	}, records[0])
	assert.Equal(t, datatree.Array{
		datatree.Object{"total": scalar(literal.Int(1000))},
	}, records[1])
}

func TestHTMLReaderSelector(t *testing.T) {
	opts := DefaultOptions()
	opts.HTMLSelector = "table.totals"
	records, err := NewHTMLReader(opts).Read(strings.NewReader(htmlPage))
	require.NoError(t, err)
	require.Len(t, records, 1)

	opts.HTMLSelector = "table.missing"
	records, err = NewHTMLReader(opts).Read(strings.NewReader(htmlPage))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHTMLReaderRequiresHeaderRow(t *testing.T) {
	page := `<table><tr><td>1</td></tr></table>`
	_, err := NewHTMLReader(DefaultOptions()).Read(strings.NewReader(page))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedHTML))

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, FormatHTML, fe.Format)
}

func TestHTMLReaderRejectsWideRows(t *testing.T) {
	page := `<table><tr><th>a</th></tr><tr><td>1</td><td>2</td></tr></table>`
	_, err := NewHTMLReader(DefaultOptions()).Read(strings.NewReader(page))
	assert.True(t, errors.Is(err, ErrMalformedHTML))
}

func TestHTMLReaderNestedTables(t *testing.T) {
	page := `<table>
		<thead><tr><th>a</th><th>b</th></tr></thead>
		<tbody>
			<tr><td>1</td><td><table><tr><th>x</th></tr><tr><td>9</td></tr></table></td></tr>
			<tr><td>2</td><td>plain</td></tr>
		</tbody>
	</table>`
	records, err := NewHTMLReader(DefaultOptions()).Read(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rows := records[0].(datatree.Array)
	require.Len(t, rows, 2)
	assert.Equal(t, scalar(literal.Int(1)), rows[0].(datatree.Object)["a"])
	assert.Equal(t, scalar(literal.String("x9")), rows[0].(datatree.Object)["b"])
	assert.Equal(t, scalar(literal.String("plain")), rows[1].(datatree.Object)["b"])
}

func TestHTMLReaderCollapsesCellWhitespace(t *testing.T) {
	page := "<table><tr><th>\n  full\n  name </th></tr><tr><td>\n  Ada\n\t Lovelace  </td></tr></table>"
	records, err := NewHTMLReader(DefaultOptions()).Read(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, datatree.Array{
		datatree.Object{"full name": scalar(literal.String("Ada Lovelace"))},
	}, records[0])
}

func TestNewReader(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatHTML} {
		r, err := NewReader(f, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, f, r.Format())
	}

	_, err := NewReader("xml", DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"json":   FormatJSON,
		"JSONL":  FormatJSON,
		" csv ":  FormatCSV,
		"tsv":    FormatCSV,
		"html":   FormatHTML,
		"ndjson": FormatJSON,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("parquet")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		delim  rune
		ok     bool
	}{
		{"a.json", FormatJSON, 0, true},
		{"logs/events.JSONL", FormatJSON, 0, true},
		{"a.csv", FormatCSV, 0, true},
		{"a.tab", FormatCSV, '\t', true},
		{"page.htm", FormatHTML, 0, true},
		{"README", "", 0, false},
	}
	for _, tt := range tests {
		format, delim, ok := DetectFormat(tt.path)
		assert.Equal(t, tt.format, format, tt.path)
		assert.Equal(t, tt.delim, delim, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "people", Title("/data/people.csv"))
	assert.Equal(t, "archive.tar", Title("archive.tar.gz"))
	assert.Equal(t, "noext", Title("noext"))
}
