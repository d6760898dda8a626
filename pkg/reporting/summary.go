/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: summary.go
Description: Flat per-path summary of an inferred descriptor. Rows are produced in
walk order and can be written as an aligned, optionally colored, terminal table.
*/

package reporting

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/kleascm/tabby/pkg/inference"
)

// FieldSummary describes one node of a descriptor
type FieldSummary struct {
	Path     string   `json:"path"`
	Kinds    []string `json:"kinds"`
	Required bool     `json:"required"`
	Distinct int      `json:"distinct"`
	Count    int      `json:"count"`
}

// Summarize flattens root into one row per reachable node
func Summarize(root inference.Subschema) []FieldSummary {
	var rows []FieldSummary
	inference.Walk(root, func(path string, node inference.Subschema, required bool) {
		row := FieldSummary{Path: path, Required: required, Kinds: []string{}}
		if node.Types != nil {
			row.Kinds = append(row.Kinds, codegen.PrimitiveNames(node.Types)...)
			row.Distinct = node.Types.Distinct()
			row.Count = node.Types.Count
		}
		if node.Array != nil {
			row.Kinds = append(row.Kinds, "array")
		}
		if node.Object != nil {
			row.Kinds = append(row.Kinds, "object")
		}
		rows = append(rows, row)
	})
	return rows
}

// WriteSummary prints rows as an aligned table. colored enables ANSI colors
// regardless of the global color setting; padding is computed on the plain
// text so escapes never skew the columns.
func WriteSummary(w io.Writer, rows []FieldSummary, colored bool) error {
	header := color.New(color.Bold)
	optional := color.New(color.FgYellow)
	kinds := color.New(color.FgCyan)
	for _, c := range []*color.Color{header, optional, kinds} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	cells := [][]string{{"PATH", "TYPES", "REQUIRED", "DISTINCT", "COUNT"}}
	for _, row := range rows {
		types := "-"
		if len(row.Kinds) > 0 {
			types = strings.Join(row.Kinds, "|")
		}
		req := "yes"
		if !row.Required {
			req = "no"
		}
		cells = append(cells, []string{row.Path, types, req, strconv.Itoa(row.Distinct), strconv.Itoa(row.Count)})
	}

	widths := make([]int, len(cells[0]))
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	for n, line := range cells {
		var b strings.Builder
		for i, cell := range line {
			padded := cell
			if i < len(line)-1 {
				padded += strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2)
			}
			switch {
			case n == 0:
				padded = header.Sprint(padded)
			case i == 1 && cell != "-":
				padded = kinds.Sprint(padded)
			case i == 2 && cell == "no":
				padded = optional.Sprint(padded)
			}
			b.WriteString(padded)
		}
		b.WriteString("\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
