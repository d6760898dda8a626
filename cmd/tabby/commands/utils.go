/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared plumbing for the tabby commands: configuration loading, logger
setup, input resolution, and the read-infer pipeline every command starts with.
*/

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kleascm/tabby/pkg/config"
	"github.com/kleascm/tabby/pkg/inference"
	"github.com/kleascm/tabby/pkg/input"
	"github.com/kleascm/tabby/pkg/logging"
	"github.com/kleascm/tabby/pkg/reporting"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const stdinName = "stdin"

// ErrFormatRequired is returned when the input format cannot be determined
var ErrFormatRequired = errors.New("input format required: pass --input-format or use a file with a known extension")

// session is one command invocation after configuration is resolved
type session struct {
	cmd    *cobra.Command
	cfg    *config.Config
	logger *logging.Logger
	source string
	format input.Format
	opts   input.Options
}

// LoadConfig loads and validates configuration for cmd. A positional FILE
// argument takes precedence over --input.
func (r *runner) LoadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	r.bind(cmd.Flags(), inferenceKeys())

	cfg, err := config.Load(r.v, r.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogging creates the run logger on the command's error stream
func SetupLogging(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	logCfg := cfg.LoggerConfig()
	logCfg.Colors = isTerminal(cmd.ErrOrStderr())

	logger, err := logging.NewLogger(logCfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// start resolves configuration, logging and the input format
func (r *runner) start(cmd *cobra.Command, args []string) (*session, error) {
	cfg, err := r.LoadConfig(cmd, args)
	if err != nil {
		return nil, err
	}

	logger, err := SetupLogging(cmd, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cmd: cmd, cfg: cfg, logger: logger, source: cfg.Input}
	if s.source == "" || s.source == "-" {
		s.source = stdinName
	}

	if err := s.resolveInput(); err != nil {
		logger.LogFinish(err)
		logger.Close()
		return nil, err
	}

	logger.LogStart(cmd.Name(), s.source, string(s.format))
	return s, nil
}

// resolveInput picks the reader format, delimiter and default title
func (s *session) resolveInput() error {
	opts, err := s.cfg.InputOptions()
	if err != nil {
		return err
	}

	var implied rune
	switch {
	case s.cfg.InputFormat != "":
		if s.format, err = input.ParseFormat(s.cfg.InputFormat); err != nil {
			return err
		}
		if s.source != stdinName {
			_, implied, _ = input.DetectFormat(s.source)
		}
	case s.source != stdinName:
		var ok bool
		if s.format, implied, ok = input.DetectFormat(s.source); !ok {
			return fmt.Errorf("%w: %s", ErrFormatRequired, s.source)
		}
	default:
		return ErrFormatRequired
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = implied
	}
	s.opts = opts

	if s.cfg.Title == "" && s.source != stdinName {
		s.cfg.Title = input.Title(s.source)
	}
	return nil
}

// infer reads every record and folds them into one descriptor
func (s *session) infer() (inference.Subschema, int, error) {
	reader, err := input.NewReader(s.format, s.opts)
	if err != nil {
		return inference.Subschema{}, 0, err
	}

	src, closeFn, err := s.openInput()
	if err != nil {
		return inference.Subschema{}, 0, err
	}
	defer closeFn()

	start := time.Now()
	records, err := reader.Read(src)
	if err != nil {
		return inference.Subschema{}, 0, fmt.Errorf("failed to read %s: %w", s.source, err)
	}
	s.logger.LogRecords(len(records), time.Since(start))

	start = time.Now()
	root := inference.Infer(records)
	s.logger.LogInference(len(records), len(reporting.Summarize(root)), time.Since(start))
	return root, len(records), nil
}

func (s *session) openInput() (io.Reader, func() error, error) {
	if s.source == stdinName {
		return s.cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(s.source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, f.Close, nil
}

// writeOutput writes data to --output or the command's stdout
func (s *session) writeOutput(data []byte) error {
	destination := s.cfg.Output
	if destination == "" || destination == "-" {
		if _, err := s.cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		s.logger.LogOutput(s.cfg.OutputFormat, "stdout", len(data))
		return nil
	}

	if err := os.WriteFile(destination, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	s.logger.LogOutput(s.cfg.OutputFormat, destination, len(data))
	return nil
}

// finish logs the outcome and releases the logger
func (s *session) finish(err error) error {
	s.logger.LogFinish(err)
	if closeErr := s.logger.Close(); err == nil && closeErr != nil {
		return closeErr
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
