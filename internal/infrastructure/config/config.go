// Package config provides configuration loading for the convbump application.
// Configuration is layered with koanf: built-in defaults, then a YAML or JSON
// config file, then CONVBUMP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/MyCarrier-DevOps/convbump/internal/domain"
)

// EnvPrefix is the prefix of environment variables read as configuration.
// CONVBUMP_COMMIT_URL maps to the commit_url key.
const EnvPrefix = "CONVBUMP_"

// Configuration keys.
const (
	KeyHeadings       = "headings"
	KeyCommitURL      = "commit_url"
	KeyVersionHeading = "version_heading"
	KeyLogLevel       = "log_level"
	KeyLogAppName     = "log_app_name"
)

// Default values.
const (
	DefaultLogLevel   = "info"
	DefaultLogAppName = "convbump"
)

// DefaultConfigFiles are looked up, in order, in the repository directory
// when no explicit config path is given.
var DefaultConfigFiles = []string{".convbump.yml", ".convbump.yaml", ".convbump.json"}

// Configuration errors.
var (
	// ErrConfigNotFound indicates an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigInvalid indicates the configuration could not be parsed or failed validation.
	ErrConfigInvalid = errors.New("invalid configuration")
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds all application configuration.
type Config struct {
	// Headings is the ordered list of "type=label" changelog headings.
	Headings []string `koanf:"headings"`

	// CommitURL is the commit link template containing {id}, or "auto".
	CommitURL string `koanf:"commit_url"`

	// VersionHeading renders the next version as the changelog title.
	VersionHeading bool `koanf:"version_heading"`

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`

	// LogAppName is the application name for log context.
	LogAppName string `koanf:"log_app_name"`

	// Source is the config file that was loaded, empty when none was found.
	Source string `koanf:"-"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// RepoPath is the directory searched for DefaultConfigFiles.
	RepoPath string

	// ConfigPath is an explicit config file. It must exist when set.
	ConfigPath string
}

// Load loads the application configuration.
//
// Sources, lowest priority first:
//   - defaults
//   - opts.ConfigPath, or the first of DefaultConfigFiles found in opts.RepoPath
//   - CONVBUMP_* environment variables (CONVBUMP_HEADINGS is comma separated)
//
// Returns ErrConfigNotFound if opts.ConfigPath does not exist and ErrConfigInvalid
// if a source cannot be parsed or the result fails validation.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	loadDefaults(k)

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironment(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the heading table, commit URL template and log level.
func (c *Config) Validate() error {
	headings, err := domain.ParseHeadings(c.Headings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	url := c.CommitURL
	if url == domain.CommitURLAuto {
		url = ""
	}

	if _, err := domain.NewRenderConfig(headings, url); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: unknown log level %q", ErrConfigInvalid, c.LogLevel)
	}

	return nil
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		KeyHeadings:       []string{},
		KeyCommitURL:      "",
		KeyVersionHeading: false,
		KeyLogLevel:       DefaultLogLevel,
		KeyLogAppName:     DefaultLogAppName,
	}
	for key, value := range defaults {
		// Set only fails for a nil koanf instance.
		_ = k.Set(key, value)
	}
}

// resolveConfigPath returns the config file to load, or "" when there is none.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		if !fileExists(opts.ConfigPath) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigPath)
		}
		return opts.ConfigPath, nil
	}

	dir := opts.RepoPath
	if dir == "" {
		dir = "."
	}

	for _, name := range DefaultConfigFiles {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", nil
}

// loadFile loads a YAML or JSON config file, picking the parser by extension.
func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: unsupported config format %q (use .yml, .yaml or .json)", ErrConfigInvalid, path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("%w: failed to load %s: %w", ErrConfigInvalid, path, err)
	}
	return nil
}

// loadEnvironment loads CONVBUMP_* environment variable overrides.
func loadEnvironment(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("%w: failed to load environment config: %w", ErrConfigInvalid, err)
	}
	return nil
}

// envTransform converts environment variables to config keys and values.
// Example: CONVBUMP_LOG_LEVEL -> log_level. CONVBUMP_HEADINGS is split on commas.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == KeyHeadings {
		return key, splitList(value)
	}
	return key, value
}

// splitList splits a comma separated list, dropping blank items.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
