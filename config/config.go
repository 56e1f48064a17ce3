package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Format is the syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor infers the format from a file extension. Unknown extensions are YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// configNames lists the project file names searched for, in precedence order.
var configNames = []string{
	"kit.yml",
	"kit.yaml",
	".kit.yml",
	".kit.yaml",
	"kit.toml",
	".kit.toml",
}

// overrideNames lists local override files applied over the project config.
var overrideNames = []string{
	"kit.override.yml",
	"kit.override.yaml",
	".kit.override.yml",
	".kit.override.yaml",
	"kit.override.toml",
}

// Load reads and parses a kit configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytesFormat(data, FormatFor(path))
	if err != nil {
		if kerr, ok := err.(*errors.KitError); ok {
			return nil, kerr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration with hierarchical merging:
// 1. Global config ($XDG_CONFIG_HOME/kit/kit.yml) - base layer
// 2. Project config (kit.yml) - overrides global
// 3. Local override (kit.override.yml) - overrides all
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger loads configuration with hierarchical merging and logging
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	projectPath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}

	logger.WithField("path", projectPath).Debug("Loading project configuration")

	var finalConfig *Config

	// 1. Global config is optional.
	if globalPath := getXDGConfigPath(); globalPath != "" && globalPath != projectPath {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalConfig, err := loadRaw(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to load global configuration, continuing without it")
			} else {
				finalConfig = globalConfig
			}
		}
	}

	// 2. Project config is required.
	projectConfig, err := loadRaw(projectPath)
	if err != nil {
		return nil, err
	}

	if finalConfig == nil {
		finalConfig = projectConfig
	} else {
		logger.Debug("Merging project configuration over global configuration")
		finalConfig = mergeConfigs(finalConfig, projectConfig)
	}

	// 3. Override files are optional.
	projectDir := filepath.Dir(projectPath)
	for _, name := range overrideNames {
		overridePath := filepath.Join(projectDir, name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		logger.WithField("path", overridePath).Debug("Loading local override configuration")
		overrideConfig, err := loadRaw(overridePath)
		if err != nil {
			logger.WithError(err).Warn("Failed to load override file, skipping")
			continue
		}
		finalConfig = mergeConfigs(finalConfig, overrideConfig)
	}

	finalConfig.SetDefaults()

	if err := finalConfig.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Configuration loaded and validated successfully")

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		configData, err := yaml.Marshal(finalConfig)
		if err == nil {
			logger.Debugf("Merged configuration:\n%s", string(configData))
		}
	}

	return finalConfig, nil
}

// LoadFromBytes parses YAML configuration from a byte array
func LoadFromBytes(data []byte) (*Config, error) {
	return LoadFromBytesFormat(data, FormatYAML)
}

// LoadFromBytesFormat parses, schema-validates, defaults and validates a
// configuration in the given format.
func LoadFromBytesFormat(data []byte, format Format) (*Config, error) {
	config, err := parse(data, format)
	if err != nil {
		return nil, err
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}

	if err := validator.Validate(config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadRaw reads and parses a file without defaults or validation.
func loadRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	cfg, err := parse(data, FormatFor(path))
	if err != nil {
		if kerr, ok := err.(*errors.KitError); ok {
			return nil, kerr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte, format Format) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var config Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &config); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		// TOML has no inline maps, so collect unknown sections separately.
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		for _, known := range []string{"version", "reporter", "ensure", "telemetry"} {
			delete(raw, known)
		}
		if len(raw) > 0 {
			config.Extensions = raw
		}
	default:
		if err := yaml.Unmarshal(expanded, &config); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return &config, nil
}

// FindConfigFile searches for kit configuration files with the following precedence:
// 1. Current directory up to filesystem root
// 2. XDG config directory ($XDG_CONFIG_HOME/kit/kit.yml)
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if xdgConfigPath := getXDGConfigPath(); xdgConfigPath != "" {
		if info, err := os.Stat(xdgConfigPath); err == nil && !info.IsDir() {
			return xdgConfigPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// getXDGConfigPath returns the global kit config path
func getXDGConfigPath() string {
	return paths.GlobalConfigFile()
}

// LoadLayered finds and loads all configuration layers (global, project, overrides)
// without merging them, for analysis purposes. It also computes the final merged config.
func LoadLayered(startDir string) (*LayeredConfig, error) {
	layered := &LayeredConfig{
		FilePaths: make(map[ConfigSource]string),
	}

	defaultCfg := &Config{}
	defaultCfg.SetDefaults()
	layered.Default = defaultCfg

	if globalPath := getXDGConfigPath(); globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			if globalConfig, err := loadRaw(globalPath); err == nil {
				layered.Global = globalConfig
				layered.FilePaths[SourceGlobal] = globalPath
			}
		}
	}

	projectPath, err := FindConfigFile(startDir)
	if err != nil {
		return nil, err
	}
	projectConfig, err := loadRaw(projectPath)
	if err != nil {
		return nil, err
	}
	layered.Project = projectConfig
	layered.FilePaths[SourceProject] = projectPath

	projectDir := filepath.Dir(projectPath)
	for _, name := range overrideNames {
		overridePath := filepath.Join(projectDir, name)
		if _, err := os.Stat(overridePath); err != nil {
			continue
		}
		if overrideConfig, err := loadRaw(overridePath); err == nil {
			layered.Overrides = append(layered.Overrides, OverrideSource{
				Path:   overridePath,
				Config: overrideConfig,
			})
		}
	}

	finalConfig := &Config{}
	if layered.Global != nil && layered.FilePaths[SourceGlobal] != projectPath {
		finalConfig = mergeConfigs(finalConfig, layered.Global)
	}
	finalConfig = mergeConfigs(finalConfig, layered.Project)
	for _, override := range layered.Overrides {
		finalConfig = mergeConfigs(finalConfig, override.Config)
	}

	finalConfig.SetDefaults()
	if err := finalConfig.Validate(); err != nil {
		return nil, err
	}
	layered.Final = finalConfig

	return layered, nil
}
