/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: drift.go
Description: Schema drift detection. An existing schema document (JSON or YAML) and a
freshly inferred one are normalized to indented JSON with sorted keys and compared
line by line, so formatting and key order never count as drift.
*/

package reporting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// ErrSchemaDrift is returned by callers that treat any difference as a failure
var ErrSchemaDrift = errors.New("schema drift detected")

// Drift is a line diff between two normalized schema documents
type Drift struct {
	Diffs []diffpatch.Diff
}

// Changed reports whether the documents differ
func (d Drift) Changed() bool {
	for _, diff := range d.Diffs {
		if diff.Type != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

// Counts returns the number of added and removed lines
func (d Drift) Counts() (added, removed int) {
	for _, diff := range d.Diffs {
		n := len(splitLines(diff.Text))
		switch diff.Type {
		case diffpatch.DiffInsert:
			added += n
		case diffpatch.DiffDelete:
			removed += n
		}
	}
	return added, removed
}

// String renders every line prefixed with "+ ", "- " or two spaces
func (d Drift) String() string {
	var b strings.Builder
	for _, diff := range d.Diffs {
		prefix := "  "
		switch diff.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range splitLines(diff.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Diff compares an existing schema with an inferred one
func Diff(existing, inferred []byte) (Drift, error) {
	from, err := normalize(existing)
	if err != nil {
		return Drift{}, fmt.Errorf("existing schema: %w", err)
	}
	to, err := normalize(inferred)
	if err != nil {
		return Drift{}, fmt.Errorf("inferred schema: %w", err)
	}

	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	return Drift{Diffs: dmp.DiffCharsToLines(diffs, lines)}, nil
}

// normalize decodes a JSON or YAML document and re-encodes it as indented
// JSON; encoding/json writes map keys in sorted order
func normalize(doc []byte) (string, error) {
	var v any
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
