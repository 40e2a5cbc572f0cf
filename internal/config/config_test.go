package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/conneroisu/aletheia/internal/errors"
	"github.com/conneroisu/aletheia/internal/logging"
	"github.com/conneroisu/aletheia/internal/render"
	"github.com/conneroisu/aletheia/internal/testutils"
)

// load parses argv the way the root command does and resolves a Config
// from a fresh Viper instance.
func load(t *testing.T, argv ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("aletheia", pflag.ContinueOnError)
	fs.String("format", "human", "")
	fs.BoolP("quiet", "q", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("no-color", false, "")
	fs.String("config", "", "")
	fs.String("log-level", "error", "")
	require.NoError(t, fs.Parse(argv))
	return Load(viper.New(), fs, fs.Args())
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	testutils.Chdir(t, testutils.CreateTempRepo(t))

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, FormatHuman, cfg.Format)
	assert.Equal(t, render.VerbosityNormal, cfg.Verbosity)
	assert.True(t, cfg.Color)
	assert.Equal(t, ScanConfig{MaxDepth: 64, MaxLinkHops: 40, Exclude: []string{".git"}}, cfg.Scan)
	assert.Equal(t, LogConfig{Level: logging.LevelError, Format: "text"}, cfg.Log)
	assert.Empty(t, cfg.File)
}

func TestLoadFlags(t *testing.T) {
	testutils.Chdir(t, testutils.CreateTempRepo(t))

	testCases := []struct {
		name  string
		argv  []string
		check func(t *testing.T, cfg *Config)
	}{
		{"path argument", []string{"/srv/repo"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, "/srv/repo", cfg.Path)
		}},
		{"json", []string{"--format", "json"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, FormatJSON, cfg.Format)
		}},
		{"format is case-insensitive", []string{"--format=YAML"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, FormatYAML, cfg.Format)
		}},
		{"quiet", []string{"-q"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, render.VerbosityQuiet, cfg.Verbosity)
		}},
		{"verbose", []string{"--verbose"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, render.VerbosityVerbose, cfg.Verbosity)
		}},
		{"no colour", []string{"--no-color"}, func(t *testing.T, cfg *Config) {
			assert.False(t, cfg.Color)
		}},
		{"log level", []string{"--log-level", "debug"}, func(t *testing.T, cfg *Config) {
			assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := load(t, tc.argv...)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadInvalidArguments(t *testing.T) {
	testutils.Chdir(t, testutils.CreateTempRepo(t))

	testCases := []struct {
		name    string
		argv    []string
		message string
	}{
		{"two paths", []string{"a", "b"}, "at most one PATH"},
		{"unknown format", []string{"--format", "xml"}, `unsupported format "xml"`},
		{"quiet and verbose", []string{"-q", "-v"}, "cannot be used together"},
		{"unknown log level", []string{"--log-level", "loud"}, "unknown log level"},
		{"missing config file", []string{"--config", "does-not-exist.yml"}, "cannot read config file"},
		{"nul byte in path", []string{"repo\x00evil"}, "NUL byte"},
		{"control character in path", []string{"repo\nname"}, "control character"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := load(t, tc.argv...)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, apperrors.IsArgumentError(err), "got %v", err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoadConfigFileInWorkingDirectory(t *testing.T) {
	dir := testutils.CreateTempRepo(t)
	testutils.Chdir(t, dir)
	path := writeConfig(t, dir, ".aletheia.yml", `
format: yaml
quiet: true
no_color: true
scan:
  max_depth: 8
  exclude: [.git, vendor]
log:
  level: info
  format: json
`)

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, render.VerbosityQuiet, cfg.Verbosity)
	assert.False(t, cfg.Color)
	assert.Equal(t, 8, cfg.Scan.MaxDepth)
	assert.Equal(t, 40, cfg.Scan.MaxLinkHops, "unset keys keep their defaults")
	assert.Equal(t, []string{".git", "vendor"}, cfg.Scan.Exclude)
	assert.Equal(t, logging.LevelInfo, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	resolved, err := filepath.EvalSymlinks(cfg.File)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := testutils.CreateTempRepo(t)
	testutils.Chdir(t, dir)
	writeConfig(t, dir, ".aletheia.yml", "format: yaml\nlog:\n  level: error\n")

	cfg, err := load(t, "--format", "json", "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
}

func TestExplicitConfigFile(t *testing.T) {
	dir := testutils.CreateTempRepo(t)
	testutils.Chdir(t, dir)
	writeConfig(t, dir, ".aletheia.yml", "format: yaml\n")
	explicit := writeConfig(t, dir, "ci.yml", "format: json\nscan:\n  max_link_hops: 5\n")

	cfg, err := load(t, "--config", explicit)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format, "the explicit file replaces the default one")
	assert.Equal(t, 5, cfg.Scan.MaxLinkHops)
	assert.Equal(t, explicit, cfg.File)
}

func TestInvalidConfigFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		message string
	}{
		{"malformed yaml", "format: [json\n", "cannot read config file"},
		{"bad format", "format: sarif\n", "unsupported format"},
		{"bad depth", "scan:\n  max_depth: 0\n", "scan.max_depth must be positive"},
		{"bad hops", "scan:\n  max_link_hops: -1\n", "scan.max_link_hops must be positive"},
		{"bad log format", "log:\n  format: xml\n", "unsupported log format"},
		{"conflicting verbosity", "quiet: true\nverbose: true\n", "cannot be used together"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutils.CreateTempRepo(t)
			testutils.Chdir(t, dir)
			writeConfig(t, dir, ".aletheia.yml", tc.content)

			_, err := load(t)
			require.Error(t, err)
			assert.True(t, apperrors.IsArgumentError(err), "got %v", err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestLoadWithoutFlagSet(t *testing.T) {
	testutils.Chdir(t, testutils.CreateTempRepo(t))

	cfg, err := Load(viper.New(), nil, []string{"repo"})
	require.NoError(t, err)
	assert.Equal(t, "repo", cfg.Path)
	assert.Equal(t, FormatHuman, cfg.Format)
}

func TestConfigConversions(t *testing.T) {
	cfg := &Config{
		Scan: ScanConfig{MaxDepth: 3, MaxLinkHops: 7, Exclude: []string{"node_modules"}},
		Log:  LogConfig{Level: logging.LevelDebug, Format: "json"},
	}

	opts := cfg.ScanOptions()
	assert.Equal(t, 3, opts.MaxDepth)
	assert.Equal(t, 7, opts.MaxLinkHops)
	assert.Equal(t, []string{"node_modules"}, opts.Exclude)

	opts.Exclude[0] = "changed"
	assert.Equal(t, "node_modules", cfg.Scan.Exclude[0])

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}
