/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: describe.go
Description: The describe command. Prints a per-field summary of the inferred
descriptor as a table or JSON, and optionally writes an HTML report.
*/

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/kleascm/tabby/pkg/reporting"
	"github.com/spf13/cobra"
)

// RunDescribe summarizes the inferred descriptor
func (r *runner) RunDescribe(cmd *cobra.Command, args []string) (err error) {
	s, err := r.start(cmd, args)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	root, records, err := s.infer()
	if err != nil {
		return err
	}
	rows := reporting.Summarize(root)

	if dir := s.cfg.ReportDir; dir != "" {
		schema, err := codegen.NewJSONSchema(s.cfg.CodegenOptions()).Generate(root)
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}
		report := &reporting.ReportData{
			Title:       s.cfg.Title,
			GeneratedAt: time.Now(),
			Version:     Version,
			RunID:       s.logger.RunID(),
			Source:      s.source,
			Records:     records,
			Fields:      rows,
			Schema:      string(schema),
		}
		if err := reporting.NewReportGenerator(dir, s.logger.GetLogger()).GenerateReport(report); err != nil {
			return err
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		return s.writeOutput(append(out, '\n'))
	}

	if s.cfg.Output != "" && s.cfg.Output != "-" {
		var buf bytes.Buffer
		if err := reporting.WriteSummary(&buf, rows, false); err != nil {
			return err
		}
		return s.writeOutput(buf.Bytes())
	}
	return reporting.WriteSummary(cmd.OutOrStdout(), rows, isTerminal(cmd.OutOrStdout()))
}
