/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Run configuration for tabby. Values come from command-line flags bound
into viper, TABBY_* environment variables (optionally seeded from a .env file), and an
optional configuration file, in that order of precedence.
*/

package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kleascm/tabby/pkg/codegen"
	"github.com/kleascm/tabby/pkg/input"
	"github.com/kleascm/tabby/pkg/literal"
	"github.com/kleascm/tabby/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "TABBY"

// Configuration keys shared by flags, environment and files
const (
	KeyInput         = "input"
	KeyInputFormat   = "input_format"
	KeyOutputFormat  = "output_format"
	KeyOutput        = "output"
	KeyDelimiter     = "delimiter"
	KeyTitle         = "title"
	KeyUseEnum       = "use_enum"
	KeyUseConst      = "use_const"
	KeyEnumThreshold = "enum_threshold"
	KeyEnumMax       = "enum_max"
	KeyHTMLSelector  = "html_selector"
	KeyCacheSize     = "cache_size"
	KeyReportDir     = "report_dir"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyLogDir        = "log_dir"
	KeyLogMaxFiles   = "log_max_files"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds one run's settings
type Config struct {
	Input         string `mapstructure:"input"`
	InputFormat   string `mapstructure:"input_format"`
	OutputFormat  string `mapstructure:"output_format"`
	Output        string `mapstructure:"output"`
	Delimiter     string `mapstructure:"delimiter"`
	Title         string `mapstructure:"title"`
	UseEnum       bool   `mapstructure:"use_enum"`
	UseConst      bool   `mapstructure:"use_const"`
	EnumThreshold int    `mapstructure:"enum_threshold"`
	EnumMax       int    `mapstructure:"enum_max"`
	HTMLSelector  string `mapstructure:"html_selector"`
	CacheSize     int    `mapstructure:"cache_size"`
	ReportDir     string `mapstructure:"report_dir"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogDir        string `mapstructure:"log_dir"`
	LogMaxFiles   int    `mapstructure:"log_max_files"`
}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal
func SetDefaults(v *viper.Viper) {
	gen := codegen.DefaultOptions()
	in := input.DefaultOptions()

	v.SetDefault(KeyInput, "")
	v.SetDefault(KeyInputFormat, "")
	v.SetDefault(KeyOutputFormat, codegen.FormatJSONSchema)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyDelimiter, "")
	v.SetDefault(KeyTitle, "")
	v.SetDefault(KeyUseEnum, gen.UseEnum)
	v.SetDefault(KeyUseConst, gen.UseConst)
	v.SetDefault(KeyEnumThreshold, gen.EnumThreshold)
	v.SetDefault(KeyEnumMax, gen.EnumMaximum)
	v.SetDefault(KeyHTMLSelector, in.HTMLSelector)
	v.SetDefault(KeyCacheSize, literal.DefaultCacheSize)
	v.SetDefault(KeyReportDir, "")
	v.SetDefault(KeyLogLevel, string(logging.LogLevelWarning))
	v.SetDefault(KeyLogFormat, string(logging.LogFormatCustom))
	v.SetDefault(KeyLogDir, "")
	v.SetDefault(KeyLogMaxFiles, 10)
}

// Load reads .env, the environment and the optional config file into v and
// returns the merged configuration. A missing .env file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that do not depend on the input itself
func (c *Config) Validate() error {
	if c.InputFormat != "" {
		if _, err := input.ParseFormat(c.InputFormat); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := codegen.NewGenerator(c.OutputFormat, c.CodegenOptions()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative", ErrInvalidConfig)
	}
	if err := c.LoggerConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CodegenOptions returns the emitter settings
func (c *Config) CodegenOptions() codegen.Options {
	return codegen.Options{
		Title:         c.Title,
		UseEnum:       c.UseEnum,
		UseConst:      c.UseConst,
		EnumThreshold: c.EnumThreshold,
		EnumMaximum:   c.EnumMax,
	}
}

// InputOptions returns the reader settings. An empty delimiter leaves the
// choice to the file extension.
func (c *Config) InputOptions() (input.Options, error) {
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		return input.Options{}, err
	}
	return input.Options{
		Delimiter:    delim,
		HTMLSelector: c.HTMLSelector,
		CacheSize:    c.CacheSize,
	}, nil
}

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:     logging.LogLevel(strings.ToLower(c.LogLevel)),
		Format:    logging.LogFormat(strings.ToLower(c.LogFormat)),
		OutputDir: c.LogDir,
		MaxFiles:  c.LogMaxFiles,
		Timestamp: true,
	}
}

// ParseDelimiter accepts a single character, or the names "tab" and "\t".
// Empty input returns zero.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '\r', '\n', '"', utf8.RuneError:
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}
