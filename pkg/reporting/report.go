/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: HTML descriptor report. Writes a self-contained page listing every field
of the inferred descriptor together with run statistics, a kind distribution chart,
and the generated schema document.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// ReportGenerator writes HTML descriptor reports into a directory
type ReportGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// ReportData contains everything rendered into a report
type ReportData struct {
	Title       string         `json:"title"`
	GeneratedAt time.Time      `json:"generated_at"`
	Version     string         `json:"version"`
	RunID       string         `json:"run_id"`
	Source      string         `json:"source"`
	Records     int            `json:"records"`
	Fields      []FieldSummary `json:"fields"`
	Schema      string         `json:"schema"`
	Stats       *ReportStats   `json:"stats"`
	KindChart   *ChartConfig   `json:"kind_chart"`
}

// ReportStats aggregates the field rows
type ReportStats struct {
	Fields   int            `json:"fields"`
	Optional int            `json:"optional"`
	Mixed    int            `json:"mixed"`
	Kinds    map[string]int `json:"kinds"`
}

// ChartConfig is a Chart.js configuration
type ChartConfig struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    interface{} `json:"data"`
	Options interface{} `json:"options"`
}

// NewReportGenerator creates a report generator
func NewReportGenerator(outputDir string, logger *logrus.Logger) *ReportGenerator {
	funcs := template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			out, err := json.Marshal(v)
			return template.JS(out), err
		},
	}
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

// GenerateReport writes index.html and summary.json into the output directory
func (rg *ReportGenerator) GenerateReport(data *ReportData) error {
	if err := os.MkdirAll(rg.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	data.Stats = computeStats(data.Fields)
	data.KindChart = kindChart(data.Stats)

	if err := rg.generateIndex(data); err != nil {
		return fmt.Errorf("failed to generate report page: %w", err)
	}
	if err := rg.generateSummary(data); err != nil {
		return fmt.Errorf("failed to generate summary: %w", err)
	}

	rg.logger.WithFields(logrus.Fields{
		"output_dir": rg.outputDir,
		"fields":     data.Stats.Fields,
	}).Info("Report generated")
	return nil
}

func (rg *ReportGenerator) generateIndex(data *ReportData) error {
	file, err := os.Create(filepath.Join(rg.outputDir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := rg.templates.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func (rg *ReportGenerator) generateSummary(data *ReportData) error {
	out, err := json.MarshalIndent(struct {
		Title   string         `json:"title"`
		RunID   string         `json:"run_id"`
		Records int            `json:"records"`
		Stats   *ReportStats   `json:"stats"`
		Fields  []FieldSummary `json:"fields"`
	}{data.Title, data.RunID, data.Records, data.Stats, data.Fields}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(rg.outputDir, "summary.json"), append(out, '\n'), 0644)
}

func computeStats(fields []FieldSummary) *ReportStats {
	stats := &ReportStats{Fields: len(fields), Kinds: make(map[string]int)}
	for _, f := range fields {
		if !f.Required {
			stats.Optional++
		}
		if len(f.Kinds) > 1 {
			stats.Mixed++
		}
		for _, k := range f.Kinds {
			stats.Kinds[k]++
		}
	}
	return stats
}

// kindChart builds a bar chart of how many fields carry each kind
func kindChart(stats *ReportStats) *ChartConfig {
	labels := make([]string, 0, len(stats.Kinds))
	for k := range stats.Kinds {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	counts := make([]int, len(labels))
	for i, k := range labels {
		counts[i] = stats.Kinds[k]
	}

	return &ChartConfig{
		Type:  "bar",
		Title: "Fields by Kind",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           "Fields",
					"data":            counts,
					"backgroundColor": "rgba(75, 192, 192, 0.5)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{
					"beginAtZero": true,
				},
			},
		},
	}
}
