/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: diff.go
Description: The diff command. Infers a schema from the input and compares it with an
existing schema document, failing with ErrSchemaDrift when they differ.
*/

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/kleascm/tabby/pkg/reporting"
	"github.com/spf13/cobra"
)

// RunDiff reports drift between --schema and the inferred schema
func (r *runner) RunDiff(cmd *cobra.Command, args []string) (err error) {
	s, err := r.start(cmd, args)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	schemaPath, _ := cmd.Flags().GetString("schema")
	existing, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	root, _, err := s.infer()
	if err != nil {
		return err
	}
	inferred, err := codegen.NewJSONSchema(s.cfg.CodegenOptions()).Generate(root)
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	drift, err := reporting.Diff(existing, inferred)
	if err != nil {
		return err
	}
	added, removed := drift.Counts()
	s.logger.LogDrift(added, removed)

	if !drift.Changed() {
		return nil
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), drift.String()); err != nil {
		return fmt.Errorf("failed to write diff: %w", err)
	}
	return fmt.Errorf("%w: %d lines added, %d removed", reporting.ErrSchemaDrift, added, removed)
}
