// Package config loads the .mdxcheck.yaml project configuration.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdxcheck/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".mdxcheck.yaml"

// Config is the project configuration.
type Config struct {
	Content    ContentConfig    `yaml:"content"`
	Components ComponentsConfig `yaml:"components"`
	Lint       LintConfig       `yaml:"lint"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	History    HistoryConfig    `yaml:"history"`

	// path is the file the configuration was loaded from; empty for defaults.
	path string
}

// ContentConfig selects the documents to lint.
type ContentConfig struct {
	Paths      []string `yaml:"paths"`
	Extensions []string `yaml:"extensions"`
	Ignore     []string `yaml:"ignore"`
}

// ComponentsConfig points at the component registry shared with the site generator.
type ComponentsConfig struct {
	// Registry is a YAML registry file. Empty means the built-in registry.
	Registry string `yaml:"registry"`
}

// LintConfig tunes lint runs.
type LintConfig struct {
	// Workers bounds parallel validation; 0 means one per CPU.
	Workers int       `yaml:"workers"`
	Format  LogFormat `yaml:"format"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after every lint run when set.
	Textfile string `yaml:"textfile"`
}

// HistoryConfig enables the run history database.
type HistoryConfig struct {
	// Database is a SQLite file. Empty disables history.
	Database string `yaml:"database"`
	// Keep is how many runs are retained; older runs are pruned.
	Keep int `yaml:"keep"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string { return c.path }

// Load reads, expands, defaults and validates the configuration at path.
//
// ${VAR} references are expanded from the environment after .env files in the
// working directory have been loaded.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 -- the configuration path is chosen by the user.
	data, err := os.ReadFile(path)
	if err != nil {
		category := errors.CategoryFileSystem
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "failed to read configuration").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	cfg.path = path
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file yields defaults
// unless required is set.
func LoadOrDefault(path string, required bool) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		loadEnvFiles()
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes configuration YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Content.Extensions) == 0 {
		cfg.Content.Extensions = []string{".md", ".mdx", ".markdown"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Lint.Format == "" {
		cfg.Lint.Format = LogFormatText
	}
	if cfg.History.Database != "" && cfg.History.Keep == 0 {
		cfg.History.Keep = 500
	}
}

// resolvePaths makes file references relative to the configuration file.
func (c *Config) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i, p := range c.Content.Paths {
		c.Content.Paths[i] = resolve(p)
	}
	c.Components.Registry = resolve(c.Components.Registry)
	c.Metrics.Textfile = resolve(c.Metrics.Textfile)
	c.History.Database = resolve(c.History.Database)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}

const exampleConfig = `# mdxcheck configuration
content:
  # Directories or files linted when no path is given on the command line.
  paths: [content]
  extensions: [.md, .mdx, .markdown]
  ignore: [drafts, "*.draft.md"]

components:
  # Component registry exported by the site. Leave empty for the built-in
  # registry (Callout only).
  registry: ""

lint:
  workers: 0
  format: text

logging:
  level: info
  format: text

metrics:
  # Prometheus textfile written after each lint run.
  textfile: ""

history:
  # SQLite database recording lint runs.
  database: ""
  keep: 500
`
