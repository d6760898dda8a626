/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: html.go
Description: HTML table reader built on goquery. Each table matching the configured
selector is read like a delimited-text table: header cells name the columns and every
data row becomes an object.
*/

package input

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kleascm/tabby/pkg/datatree"
	"github.com/kleascm/tabby/pkg/literal"
)

// HTMLReader extracts tables from HTML documents
type HTMLReader struct {
	selector  string
	cacheSize int
}

// NewHTMLReader creates an HTML table reader
func NewHTMLReader(opts Options) *HTMLReader {
	selector := strings.TrimSpace(opts.HTMLSelector)
	if selector == "" {
		selector = "table"
	}
	return &HTMLReader{selector: selector, cacheSize: opts.CacheSize}
}

// Format returns FormatHTML
func (r *HTMLReader) Format() Format { return FormatHTML }

// Read returns one record per matching table, in document order
func (r *HTMLReader) Read(src io.Reader) ([]datatree.Node, error) {
	doc, err := goquery.NewDocumentFromReader(src)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	parser := literal.NewCachedParser(r.cacheSize)
	matched := doc.Find(r.selector)
	// Tables nested in a matched table belong to its cells
	tables := matched.FilterFunction(func(_ int, t *goquery.Selection) bool {
		return !t.Parents().IsSelection(matched)
	})

	records := make([]datatree.Node, 0, tables.Length())
	for i := range tables.Nodes {
		headers, rows, err := readTable(tables.Eq(i), i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, datatree.FromTable(headers, rows, parser.Parse))
	}
	return records, nil
}

// ownRows returns the rows of table itself in document order, leaving out
// rows of any table nested inside its cells
func ownRows(table *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	table.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "tr":
			rows = append(rows, child)
		case "thead", "tbody", "tfoot":
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				rows = append(rows, tr)
			})
		}
	})
	return rows
}

// readTable collects header names from the first row's th cells and data
// from the td cells of later rows. index is 1-based and only used in errors.
func readTable(table *goquery.Selection, index int) ([]string, [][]string, error) {
	trs := ownRows(table)
	if len(trs) == 0 {
		return nil, nil, tableError(index, "no rows")
	}

	var headers []string
	seen := make(map[string]bool)
	var dupErr error
	trs[0].ChildrenFiltered("th").Each(func(_ int, th *goquery.Selection) {
		h := cellText(th)
		if seen[h] && dupErr == nil {
			dupErr = tableError(index, fmt.Sprintf("duplicate header %q", h))
		}
		seen[h] = true
		headers = append(headers, h)
	})
	if dupErr != nil {
		return nil, nil, dupErr
	}
	if len(headers) == 0 {
		return nil, nil, tableError(index, "first row has no header cells")
	}

	var rows [][]string
	for i := 1; i < len(trs); i++ {
		tds := trs[i].ChildrenFiltered("td")
		if tds.Length() == 0 {
			continue
		}
		row := tds.Map(func(_ int, td *goquery.Selection) string {
			return cellText(td)
		})
		if len(row) > len(headers) {
			return nil, nil, tableError(index, fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), len(headers)))
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// cellText collapses runs of whitespace, which HTML rendering ignores
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func tableError(index int, msg string) error {
	return &FormatError{
		Format: FormatHTML,
		Err:    fmt.Errorf("%w: table %d: %s", ErrMalformedHTML, index, msg),
	}
}
