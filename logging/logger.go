package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger returns the logger for component, creating it on first use.
// Settings come from the "logging" section of the nearest kit.yml and the
// KIT_LOG_LEVEL, KIT_LOG_CALLER and KIT_DEBUG environment variables.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newLogger(component, logCfg).WithField("component", component)
	loggers[component] = entry
	return entry
}

// Reset forgets every cached logger so the next NewLogger call re-reads
// configuration.
func Reset() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	loggers = make(map[string]*logrus.Entry)
}

func newLogger(component string, logCfg Config) *logrus.Logger {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("KIT_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if os.Getenv("KIT_DEBUG") == "1" {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if os.Getenv("KIT_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	interactive := isInteractive()
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(NewTextFormatter(logCfg.Format, interactive))
	}

	var writers []io.Writer
	if logCfg.File.Enabled {
		if file, err := openLogFile(component, logCfg.File.Path); err != nil {
			logger.Warnf("Failed to open log file: %v", err)
		} else {
			writers = append(writers, file)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel(), interactive) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return logger
}

// shouldLogToStderr resolves the structured_to_stderr mode. In "auto" mode
// structured logs reach stderr only when debugging or when stderr is not a
// terminal (piped output, CI).
func shouldLogToStderr(mode string, level logrus.Level, interactive bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return level >= logrus.DebugLevel || !interactive
	}
}

func isInteractive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func openLogFile(component, path string) (*os.File, error) {
	if path == "" {
		dir := paths.LogDir()
		if dir == "" {
			return nil, fmt.Errorf("no log directory for %s", component)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, time.Now().Format("2006-01-02")))
	}
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// expandPath expands a leading tilde.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
