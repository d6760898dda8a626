/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yaml.go
Description: YAML rendering of the inferred JSON Schema document.
*/

package codegen

import (
	"bytes"

	"github.com/kleascm/tabby/pkg/inference"
	"gopkg.in/yaml.v3"
)

// YAMLSchema renders the same document as JSONSchema, encoded as YAML
type YAMLSchema struct {
	opts Options
}

// NewYAMLSchema creates a YAML schema generator
func NewYAMLSchema(opts Options) *YAMLSchema {
	return &YAMLSchema{opts: opts}
}

// Format returns the generator's format name
func (g *YAMLSchema) Format() string { return FormatYAML }

// Generate encodes the document with two-space indentation
func (g *YAMLSchema) Generate(root inference.Subschema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Document(root, g.opts)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
