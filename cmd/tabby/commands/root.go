/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: root.go
Description: Command tree for tabby. Builds the root command (which runs inference)
and the describe and diff subcommands, and binds every flag into viper so that flags,
TABBY_* environment variables and config files share one set of keys.
*/

package commands

import (
	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/kleascm/tabby/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is reported by --version
var Version = "1.0.0"

// runner carries state shared by every command of one tree
type runner struct {
	v          *viper.Viper
	configFile string
}

// NewRootCommand builds the full command tree with a private viper instance
func NewRootCommand() *cobra.Command {
	r := &runner{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tabby [FILE]",
		Short: "Tabby - infer JSON Schema from JSON, CSV and HTML tables",
		Long: `Tabby reads a collection of records (JSON documents, JSON Lines, delimited
text or HTML tables), folds every record into one structural descriptor, and emits a
JSON Schema describing all observed shapes. Low-cardinality values become enums and
single values become consts.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          r.RunInfer,
	}

	// Persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&r.configFile, "config", "", "Configuration file path")
	pf.String("log-level", "warn", "Logging level (debug, info, warn, error)")
	pf.String("log-format", "custom", "Log format (text, json, custom)")
	pf.String("log-dir", "", "Also write logs to a timestamped file in this directory")
	pf.Int("log-max-files", 10, "Maximum number of log files to keep in --log-dir")
	r.bind(pf, map[string]string{
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
		config.KeyLogDir:      "log-dir",
		config.KeyLogMaxFiles: "log-max-files",
	})

	r.addInferenceFlags(rootCmd)

	inferCmd := &cobra.Command{
		Use:   "infer [FILE]",
		Short: "Infer a schema and write it to stdout or --output",
		Long: `Infer a schema from the input records. The input format is taken from
--input-format or the file extension; stdin requires --input-format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.RunInfer,
	}
	r.addInferenceFlags(inferCmd)
	rootCmd.AddCommand(inferCmd)

	describeCmd := &cobra.Command{
		Use:   "describe [FILE]",
		Short: "Summarize the inferred descriptor field by field",
		Long: `Print one row per field path with its kinds, whether it is required, and
how many distinct values and instances were observed. --report writes an HTML report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.RunDescribe,
	}
	r.addInferenceFlags(describeCmd)
	describeCmd.Flags().Bool("json", false, "Print the summary as JSON")
	describeCmd.Flags().String("report", "", "Write an HTML report into this directory")
	rootCmd.AddCommand(describeCmd)

	diffCmd := &cobra.Command{
		Use:   "diff [FILE]",
		Short: "Compare an existing schema with one inferred from the input",
		Long: `Infer a schema from the input and compare it with an existing schema document
(JSON or YAML). Differences are printed as +/- lines and the command fails when the
schemas differ.`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.RunDiff,
	}
	r.addInferenceFlags(diffCmd)
	diffCmd.Flags().String("schema", "", "Existing schema document (required)")
	diffCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(diffCmd)

	return rootCmd
}

// addInferenceFlags declares the flags shared by every inferring command.
// They are bound to viper when the command runs so that each subcommand's
// own flag set is the one consulted.
func (r *runner) addInferenceFlags(cmd *cobra.Command) {
	defaults := codegen.DefaultOptions()
	f := cmd.Flags()
	f.StringP("input", "i", "", "Input file (default stdin)")
	f.StringP("input-format", "d", "", "Input format (json, csv, html); detected from the extension when omitted")
	f.StringP("output-format", "f", codegen.FormatJSONSchema, "Output format (json-schema, yaml, python)")
	f.StringP("output", "o", "", "Output file (default stdout)")
	f.String("delimiter", "", "Field delimiter for delimited text (single character or 'tab')")
	f.String("title", "", "Schema title (default: input file name without extension)")
	f.Bool("use-enum", defaults.UseEnum, "Emit enums for low-cardinality values")
	f.Bool("use-const", defaults.UseConst, "Emit consts for single-valued fields")
	f.Int("enum-threshold", defaults.EnumThreshold, "Enum threshold as a percentage of instances (0-100)")
	f.Int("enum-max", defaults.EnumMaximum, "Maximum distinct values in an enum (0 = no limit)")
	f.String("html-selector", "table", "CSS selector for HTML tables")
}

func inferenceKeys() map[string]string {
	return map[string]string{
		config.KeyInput:         "input",
		config.KeyInputFormat:   "input-format",
		config.KeyOutputFormat:  "output-format",
		config.KeyOutput:        "output",
		config.KeyDelimiter:     "delimiter",
		config.KeyTitle:         "title",
		config.KeyUseEnum:       "use-enum",
		config.KeyUseConst:      "use-const",
		config.KeyEnumThreshold: "enum-threshold",
		config.KeyEnumMax:       "enum-max",
		config.KeyHTMLSelector:  "html-selector",
		config.KeyReportDir:     "report",
	}
}

// bind connects viper keys to flags
func (r *runner) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if flag := flags.Lookup(name); flag != nil {
			r.v.BindPFlag(key, flag)
		}
	}
}
