package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config
// keys, e.g. JIRACTL_SERVER_HOST for server.host.
const EnvPrefix = "JIRACTL"

// ServerConfig holds the connection settings for the Jira server.
type ServerConfig struct {
	// Host is the server host, optionally with a port
	// (e.g., "jira.example.com" or "jira.example.com:8443").
	Host string `mapstructure:"host" yaml:"host"`

	// TimeoutSec bounds each HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// HistoryConfig controls the local invocation history.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Username is used when --user is not given.
	Username string `mapstructure:"username" yaml:"username"`

	// Project is used when --project is not given.
	Project string `mapstructure:"project" yaml:"project"`

	// Limit is used when --limit is not given. Zero leaves the choice to
	// the operation.
	Limit int `mapstructure:"limit" yaml:"limit"`

	// TemplatesDir is searched for create_issue templates.
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`

	// Output is the default output format: text, json or yaml.
	Output string `mapstructure:"output" yaml:"output"`

	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

// configDir returns ~/.config/jiractl, or the working directory when the
// home directory cannot be determined.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "jiractl")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jiractl/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultHistoryPath returns the default history database path.
func DefaultHistoryPath() string {
	return filepath.Join(configDir(), "history.db")
}

// defaults lists every known key with its default value. It doubles as the
// set of keys "config set" accepts.
func defaults() map[string]any {
	return map[string]any{
		"server.host":        "",
		"server.timeout_sec": 30,
		"username":           "",
		"project":            "",
		"limit":              0,
		"templates_dir":      "",
		"output":             "text",
		"history.enabled":    true,
		"history.path":       DefaultHistoryPath(),
	}
}

// Keys returns the known configuration keys in sorted order.
func Keys() []string {
	d := defaults()
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range defaults() {
		v.SetDefault(k, val)
	}
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// with JIRACTL_* environment variables taking precedence over the file.
// If the file does not exist, defaults (and the environment) apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Server.TimeoutSec <= 0 {
		cfg.Server.TimeoutSec = 30
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath()
	}
	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for k, val := range cfg.Values() {
		v.Set(k, val)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// Values flattens the configuration into dotted keys.
func (c *AppConfig) Values() map[string]any {
	return map[string]any{
		"server.host":        c.Server.Host,
		"server.timeout_sec": c.Server.TimeoutSec,
		"username":           c.Username,
		"project":            c.Project,
		"limit":              c.Limit,
		"templates_dir":      c.TemplatesDir,
		"output":             c.Output,
		"history.enabled":    c.History.Enabled,
		"history.path":       c.History.Path,
	}
}

// Set assigns one dotted key from its string form.
func (c *AppConfig) Set(key, value string) error {
	switch key {
	case "server.host":
		c.Server.Host = value
	case "username":
		c.Username = value
	case "project":
		c.Project = value
	case "templates_dir":
		c.TemplatesDir = value
	case "history.path":
		c.History.Path = value
	case "output":
		switch value {
		case "text", "json", "yaml":
			c.Output = value
		default:
			return fmt.Errorf("output must be text, json or yaml, got %q", value)
		}
	case "server.timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("server.timeout_sec must be a positive integer, got %q", value)
		}
		c.Server.TimeoutSec = n
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("limit must be a non-negative integer, got %q", value)
		}
		c.Limit = n
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history.enabled must be true or false, got %q", value)
		}
		c.History.Enabled = b
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
