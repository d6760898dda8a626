/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: infer.go
Description: The infer command. Reads the input, folds every record into one
descriptor and writes the schema in the requested output format.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/spf13/cobra"
)

// RunInfer infers a schema and writes it to stdout or --output
func (r *runner) RunInfer(cmd *cobra.Command, args []string) (err error) {
	s, err := r.start(cmd, args)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	gen, err := codegen.NewGenerator(s.cfg.OutputFormat, s.cfg.CodegenOptions())
	if err != nil {
		return err
	}

	root, _, err := s.infer()
	if err != nil {
		return err
	}

	out, err := gen.Generate(root)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", gen.Format(), err)
	}
	return s.writeOutput(out)
}
