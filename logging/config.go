package logging

// Config is the "logging" extension section of kit.yml.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// KIT_LOG_LEVEL overrides it.
	Level string `yaml:"level"`

	// ReportCaller adds file, line and function to each entry.
	// KIT_LOG_CALLER=true enables it.
	ReportCaller bool `yaml:"report_caller"`

	// File configures logging to a file.
	File FileSinkConfig `yaml:"file"`

	// Format configures the appearance of the log output.
	Format FormatConfig `yaml:"format"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is the log file. Defaults to <state dir>/logs/<component>-<date>.log.
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"` // "text" (default) or "json"
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset is "default" (rich text), "simple" (minimal text), or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
