// Package paths resolves the per-user directories kit reads and writes.
//
// Resolution order:
// 1. KIT_HOME (portable root) → $KIT_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/kit
// 3. Platform defaults → ~/.config/kit, ~/.local/state/kit, ~/.cache/kit
package paths

import (
	"os"
	"path/filepath"
)

const appName = "kit"

// base resolves one XDG base directory. portable is the subdirectory used
// under KIT_HOME, fallback the path under the home directory.
func base(portable, xdgVar string, fallback ...string) string {
	if home := os.Getenv("KIT_HOME"); home != "" {
		return filepath.Join(home, portable)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
}

// ConfigDir holds the global kit.yml.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir holds logs and other runtime state.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir holds regenerable data.
func CacheDir() string {
	return base("cache", "XDG_CACHE_HOME", ".cache")
}

// GlobalConfigFile is the path of the global configuration layer, or "" when
// no home directory can be determined.
func GlobalConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "kit.yml")
}

// LogDir is where file logging writes when no path is configured.
func LogDir() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "logs")
}

// All returns every directory by name, for display.
func All() map[string]string {
	return map[string]string{
		"config_dir": ConfigDir(),
		"state_dir":  StateDir(),
		"cache_dir":  CacheDir(),
		"log_dir":    LogDir(),
	}
}
