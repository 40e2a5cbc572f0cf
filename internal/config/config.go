// Package config resolves the settings for a single aletheia invocation
// using Viper. Values come from command-line flags, an optional YAML file,
// and built-in defaults, in that order of precedence. Environment variables
// are not consulted.
//
// The configuration file is either the one named by --config or, when that
// flag is absent, .aletheia.yml in the working directory if it exists:
//
//	format: json
//	verbose: true
//	scan:
//	  max_depth: 32
//	  exclude: [.git, node_modules]
//	log:
//	  level: debug
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/render"
	"github.com/conneroisu/aletheia/internal/security"
)

// Format is the report output format.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatHuman, FormatJSON, FormatYAML}
}

// Config is the resolved, validated configuration. It is not modified
// after Load returns.
type Config struct {
	// Path is the raw PATH argument; empty means the working directory.
	Path      string
	Format    Format
	Verbosity render.Verbosity
	// Color is false when --no-color was given. Whether colour is actually
	// emitted also depends on the output being a terminal.
	Color bool
	Scan  ScanConfig
	Log   LogConfig
	// File is the configuration file that was read, if any.
	File string
}

type ScanConfig struct {
	MaxDepth    int      `mapstructure:"max_depth"`
	MaxLinkHops int      `mapstructure:"max_link_hops"`
	Exclude     []string `mapstructure:"exclude"`
}

type LogConfig struct {
	Level  logging.LogLevel
	Format string
}

// settings mirrors the keys Viper resolves before validation.
type settings struct {
	Format  string     `mapstructure:"format"`
	Quiet   bool       `mapstructure:"quiet"`
	Verbose bool       `mapstructure:"verbose"`
	NoColor bool       `mapstructure:"no_color"`
	Scan    ScanConfig `mapstructure:"scan"`
	Log     struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"format":    "format",
	"quiet":     "quiet",
	"verbose":   "verbose",
	"no-color":  "no_color",
	"log-level": "log.level",
}

// DefaultConfigName is the file looked up in the working directory.
const DefaultConfigName = ".aletheia"

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	scan := security.DefaultOptions()
	v.SetDefault("format", string(FormatHuman))
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)
	v.SetDefault("no_color", false)
	v.SetDefault("scan.max_depth", scan.MaxDepth)
	v.SetDefault("scan.max_link_hops", scan.MaxLinkHops)
	v.SetDefault("scan.exclude", scan.Exclude)
	v.SetDefault("log.level", "error")
	v.SetDefault("log.format", "text")
}

// Load resolves the configuration from flags, the optional config file and
// args (the positional arguments). Every failure is an invalid-argument
// error.
func Load(v *viper.Viper, flags *pflag.FlagSet, args []string) (*Config, error) {
	if len(args) > 1 {
		return nil, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("expected at most one PATH argument, got %d", len(args)), nil)
	}

	SetDefaults(v)

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	for name, key := range flagKeys {
		if flags == nil {
			break
		}
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, apperrors.NewInternalError("binding flag --"+name, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, apperrors.NewConfigError("decoding configuration", err)
	}

	cfg, err := fromSettings(s)
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if err := validatePathArgument(args[0]); err != nil {
			return nil, err
		}
		cfg.Path = args[0]
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	explicit := ""
	if flags != nil && flags.Lookup("config") != nil {
		explicit, _ = flags.GetString("config")
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.NewConfigError("cannot read config file "+explicit, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return apperrors.NewConfigError("cannot read config file", err)
	}
	return nil
}

func fromSettings(s settings) (*Config, error) {
	format, err := ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}

	if s.Quiet && s.Verbose {
		return nil, apperrors.NewInvalidArgumentError("--quiet and --verbose cannot be used together", nil)
	}
	verbosity := render.VerbosityNormal
	switch {
	case s.Quiet:
		verbosity = render.VerbosityQuiet
	case s.Verbose:
		verbosity = render.VerbosityVerbose
	}

	if s.Scan.MaxDepth <= 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("scan.max_depth must be positive, got %d", s.Scan.MaxDepth), nil)
	}
	if s.Scan.MaxLinkHops <= 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("scan.max_link_hops must be positive, got %d", s.Scan.MaxLinkHops), nil)
	}

	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(err.Error(), nil)
	}
	logFormat := strings.ToLower(s.Log.Format)
	if logFormat != "text" && logFormat != "json" {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unsupported log format %q (supported: text, json)", s.Log.Format), nil)
	}

	return &Config{
		Format:    format,
		Verbosity: verbosity,
		Color:     !s.NoColor,
		Scan:      s.Scan,
		Log:       LogConfig{Level: level, Format: logFormat},
	}, nil
}

// validatePathArgument rejects PATH values no filesystem can hold.
func validatePathArgument(path string) error {
	if strings.ContainsRune(path, 0) {
		return apperrors.NewInvalidArgumentError("PATH contains a NUL byte", nil)
	}
	for _, r := range path {
		if r < 0x20 && r != '\t' {
			return apperrors.NewInvalidArgumentError(
				fmt.Sprintf("PATH contains control character %U", r), nil)
		}
	}
	return nil
}

// ParseFormat validates an output format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", apperrors.NewInvalidArgumentError(
		fmt.Sprintf("unsupported format %q (supported: %s)", name, strings.Join(names, ", ")), nil)
}

// ScanOptions converts the scan settings for the security scanner.
func (c *Config) ScanOptions() security.Options {
	return security.Options{
		MaxDepth:    c.Scan.MaxDepth,
		MaxLinkHops: c.Scan.MaxLinkHops,
		Exclude:     append([]string(nil), c.Scan.Exclude...),
	}
}

// LoggerConfig builds the logger settings for this invocation.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}
