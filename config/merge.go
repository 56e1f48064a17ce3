package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadWithOverrides loads configuration from baseFile and applies any
// override files found next to it.
func LoadWithOverrides(baseFile string) (*Config, error) {
	config, err := Load(baseFile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(baseFile)
	for _, name := range overrideNames {
		overrideFile := filepath.Join(dir, name)
		if _, err := os.Stat(overrideFile); err != nil {
			continue
		}

		override, err := loadRaw(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("load override %s: %w", overrideFile, err)
		}

		config = mergeConfigs(config, override)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// mergeConfigs merges override configuration into base. Scalars in override
// win when set; the reporter's initial state and extensions merge per key.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	// Reporter
	result.Reporter.Initial = mergeMaps(base.Reporter.Initial, override.Reporter.Initial)
	if override.Reporter.Buffer != 0 {
		result.Reporter.Buffer = override.Reporter.Buffer
	}

	// Ensure
	if override.Ensure.MaxRetries != nil {
		retries := *override.Ensure.MaxRetries
		result.Ensure.MaxRetries = &retries
	}
	if override.Ensure.RetryDelay != "" {
		result.Ensure.RetryDelay = override.Ensure.RetryDelay
	}

	// Telemetry
	if override.Telemetry.Enabled {
		result.Telemetry.Enabled = true
	}
	if override.Telemetry.ServiceName != "" {
		result.Telemetry.ServiceName = override.Telemetry.ServiceName
	}
	if override.Telemetry.MeterName != "" {
		result.Telemetry.MeterName = override.Telemetry.MeterName
	}
	if override.Telemetry.Interval != "" {
		result.Telemetry.Interval = override.Telemetry.Interval
	}

	// Extensions merge one level deep so an override can change a single
	// field of a section.
	if len(base.Extensions) > 0 || len(override.Extensions) > 0 {
		result.Extensions = make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			result.Extensions[k] = v
		}
		for k, v := range override.Extensions {
			baseSection, baseOK := result.Extensions[k].(map[string]interface{})
			overSection, overOK := v.(map[string]interface{})
			if baseOK && overOK {
				result.Extensions[k] = mergeMaps(baseSection, overSection)
				continue
			}
			result.Extensions[k] = v
		}
	}

	return &result
}

func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
