package honeybadger

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const PluginName = "honeybadger"

// Config is the notifier configuration. A nil field means "unset, use the default".
type Config struct {
	// Project API key
	APIKey *string `mapstructure:"api_key" yaml:"api_key"`

	// Environment the app runs in, e.g. "production"
	Env *string `mapstructure:"env" yaml:"env"`

	// Enable/disable reporting. Defaults to false for test, development and cucumber.
	ReportData *bool `mapstructure:"report_data" yaml:"report_data"`

	// Absolute project root
	Root *string `mapstructure:"root" yaml:"root"`

	// Deployed revision
	Revision *string `mapstructure:"revision" yaml:"revision"`

	// Hostname of the box, defaults to os.Hostname
	Hostname *string `mapstructure:"hostname" yaml:"hostname"`

	// Collector connection settings
	Connection ConnectionConfig `mapstructure:"connection" yaml:"connection"`

	// Request data filtering
	Request RequestConfig `mapstructure:"request" yaml:"request"`
}

// ConnectionConfig contains collector connection settings
type ConnectionConfig struct {
	// Use TLS, defaults to true
	Secure *bool `mapstructure:"secure" yaml:"secure"`
	// Collector host, defaults to api.honeybadger.io
	Host *string `mapstructure:"host" yaml:"host"`
	// Collector port, defaults to 443 (or 80 when not secure)
	Port *uint16 `mapstructure:"port" yaml:"port"`
}

// RequestConfig contains request filtering settings
type RequestConfig struct {
	// Substrings of keys whose values are redacted.
	// Defaults to DefaultFilterKeys.
	FilterKeys []string `mapstructure:"filter_keys" yaml:"filter_keys"`
}

// PluginConfig is the RoadRunner section of the plugin
type PluginConfig struct {
	Config `mapstructure:",squash"`

	// HTTP transport settings
	Transport TransportConfig `mapstructure:"transport"`
}

// TransportConfig contains HTTP transport settings
type TransportConfig struct {
	// Request timeout
	Timeout time.Duration `mapstructure:"timeout"`
	// Proxy URL
	Proxy string `mapstructure:"proxy"`
}

var (
	// DefaultFilterKeys are used when Request.FilterKeys is unset
	DefaultFilterKeys = []string{"password", "HTTP_AUTHORIZATION"}

	// environments that do not report unless ReportData is set
	devEnvironments = []string{"test", "development", "cucumber"}
)

// InitDefaults initializes default configuration values
func (cfg *PluginConfig) InitDefaults() {
	if cfg.Transport.Timeout == 0 {
		cfg.Transport.Timeout = 30 * time.Second
	}
}

// Validate validates the configuration
func (cfg *PluginConfig) Validate() error {
	if cfg.Transport.Timeout < 0 {
		return fmt.Errorf("transport timeout must not be negative, got %s", cfg.Transport.Timeout)
	}
	if cfg.Connection.Port != nil && *cfg.Connection.Port == 0 {
		return fmt.Errorf("connection port must not be 0")
	}
	return nil
}

// Clone returns a deep copy of cfg
func (cfg *Config) Clone() *Config {
	c := &Config{
		APIKey:     clonePtr(cfg.APIKey),
		Env:        clonePtr(cfg.Env),
		ReportData: clonePtr(cfg.ReportData),
		Root:       clonePtr(cfg.Root),
		Revision:   clonePtr(cfg.Revision),
		Hostname:   clonePtr(cfg.Hostname),
		Connection: ConnectionConfig{
			Secure: clonePtr(cfg.Connection.Secure),
			Host:   clonePtr(cfg.Connection.Host),
			Port:   clonePtr(cfg.Connection.Port),
		},
	}
	if cfg.Request.FilterKeys != nil {
		c.Request.FilterKeys = slices.Clone(cfg.Request.FilterKeys)
	}
	return c
}

// Merge copies every field of other into cfg that is unset in cfg
func (cfg *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	fill(&cfg.APIKey, other.APIKey)
	fill(&cfg.Env, other.Env)
	fill(&cfg.ReportData, other.ReportData)
	fill(&cfg.Root, other.Root)
	fill(&cfg.Revision, other.Revision)
	fill(&cfg.Hostname, other.Hostname)
	fill(&cfg.Connection.Secure, other.Connection.Secure)
	fill(&cfg.Connection.Host, other.Connection.Host)
	fill(&cfg.Connection.Port, other.Connection.Port)
	if cfg.Request.FilterKeys == nil && other.Request.FilterKeys != nil {
		cfg.Request.FilterKeys = slices.Clone(other.Request.FilterKeys)
	}
}

// ShouldReport tells whether notices may be sent at all
func (cfg *Config) ShouldReport() bool {
	if cfg.ReportData != nil {
		return *cfg.ReportData
	}
	return !lo.Contains(devEnvironments, StringValue(cfg.Env))
}

// FilterKey returns true if the value under key likely holds a secret
func (cfg *Config) FilterKey(key string) bool {
	keys := cfg.Request.FilterKeys
	if keys == nil {
		keys = DefaultFilterKeys
	}
	return lo.ContainsBy(keys, func(s string) bool {
		return strings.Contains(key, s)
	})
}

// LoadConfigFile reads a YAML configuration file
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// String returns a pointer to s
func String(s string) *string { return &s }

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }

// Port returns a pointer to p
func Port(p uint16) *uint16 { return &p }

// StringValue dereferences s, returning "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func fill[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		*dst = clonePtr(src)
	}
}
