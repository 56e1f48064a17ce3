package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the kit.yml configuration.
type Config struct {
	Version   string          `yaml:"version" toml:"version" json:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Reporter  ReporterConfig  `yaml:"reporter,omitempty" toml:"reporter,omitempty" json:"reporter,omitempty" jsonschema:"description=State reporter settings"`
	Ensure    EnsureConfig    `yaml:"ensure,omitempty" toml:"ensure,omitempty" json:"ensure,omitempty" jsonschema:"description=Retry policy for path creation"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty" toml:"telemetry,omitempty" json:"telemetry,omitempty" jsonschema:"description=OpenTelemetry export of reporter state"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// ReporterConfig seeds a state reporter.
type ReporterConfig struct {
	// Initial holds the state the reporter starts with.
	Initial map[string]interface{} `yaml:"initial,omitempty" toml:"initial,omitempty" json:"initial,omitempty" jsonschema:"description=Initial key-value state"`
	// Buffer is the channel buffer of each subscription.
	Buffer int `yaml:"buffer,omitempty" toml:"buffer,omitempty" json:"buffer,omitempty" jsonschema:"description=Per-subscription channel buffer,minimum=0"`
}

// EnsureConfig controls retries when creating paths.
type EnsureConfig struct {
	MaxRetries *int   `yaml:"max_retries,omitempty" toml:"max_retries,omitempty" json:"max_retries,omitempty" jsonschema:"description=Retries after the first attempt on transient errors (default: 3),minimum=0"`
	RetryDelay string `yaml:"retry_delay,omitempty" toml:"retry_delay,omitempty" json:"retry_delay,omitempty" jsonschema:"description=Initial backoff delay as a Go duration (default: 100ms)"`
}

// Retries returns the configured retry count.
func (e EnsureConfig) Retries() int {
	if e.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *e.MaxRetries
}

// Delay returns the parsed retry delay, or the default when unset or invalid.
func (e EnsureConfig) Delay() time.Duration {
	if e.RetryDelay == "" {
		return DefaultRetryDelay
	}
	d, err := time.ParseDuration(e.RetryDelay)
	if err != nil {
		return DefaultRetryDelay
	}
	return d
}

// TelemetryConfig controls the OpenTelemetry bridge.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty" jsonschema:"description=Export reporter state as metrics"`
	ServiceName string `yaml:"service_name,omitempty" toml:"service_name,omitempty" json:"service_name,omitempty" jsonschema:"description=service.name resource attribute (default: kit)"`
	MeterName   string `yaml:"meter_name,omitempty" toml:"meter_name,omitempty" json:"meter_name,omitempty" jsonschema:"description=Instrumentation scope name (default: github.com/grovetools/kit)"`
	Interval    string `yaml:"interval,omitempty" toml:"interval,omitempty" json:"interval,omitempty" jsonschema:"description=Periodic export interval as a Go duration (default: 15s)"`
}

// ExportInterval returns the parsed export interval, or the default.
func (t TelemetryConfig) ExportInterval() time.Duration {
	if d, err := time.ParseDuration(t.Interval); err == nil && d > 0 {
		return d
	}
	return DefaultExportInterval
}

const (
	DefaultVersion        = "1.0"
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 100 * time.Millisecond
	DefaultServiceName    = "kit"
	DefaultMeterName      = "github.com/grovetools/kit"
	DefaultExportInterval = 15 * time.Second
)

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Ensure.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Ensure.MaxRetries = &retries
	}
	if c.Ensure.RetryDelay == "" {
		c.Ensure.RetryDelay = DefaultRetryDelay.String()
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
	if c.Telemetry.MeterName == "" {
		c.Telemetry.MeterName = DefaultMeterName
	}
	if c.Telemetry.Interval == "" {
		c.Telemetry.Interval = DefaultExportInterval.String()
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded kit.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing section leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// ConfigSource identifies the origin of a configuration layer.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceGlobal   ConfigSource = "global"
	SourceProject  ConfigSource = "project"
	SourceOverride ConfigSource = "override"
)

// OverrideSource holds a raw configuration from an override file and its path.
type OverrideSource struct {
	Path   string
	Config *Config
}

// LayeredConfig holds the raw configuration from each source file,
// as well as the final merged configuration, for analysis purposes.
type LayeredConfig struct {
	Default   *Config
	Global    *Config
	Project   *Config
	Overrides []OverrideSource
	Final     *Config
	FilePaths map[ConfigSource]string
}
