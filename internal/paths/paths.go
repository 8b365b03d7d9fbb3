// Package paths resolves the configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory name used under the platform config and data roots.
const appName = "tradestate"

// ConfigFileName is the viper config file inside the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TRADESTATE_CONFIG_DIR"
	EnvDataDir   = "TRADESTATE_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tradestate (fallback ~/.config/tradestate)
// macOS:   ~/Library/Application Support/tradestate
// Windows: %APPDATA%/tradestate
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	return userConfigSubdir()
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/tradestate (fallback ~/.local/share/tradestate)
// macOS:   ~/Library/Application Support/tradestate/data
// Windows: %APPDATA%/tradestate/data
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	}
	dir, err := userConfigSubdir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func xdgDir(env, homeRel string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appName), nil
}

func userConfigSubdir() (string, error) {
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > TRADESTATE_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, os.Getenv(EnvConfigDir), "", DefaultConfigDir)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > TRADESTATE_DATA_DIR > config value > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(flag, os.Getenv(EnvDataDir), configValue, DefaultDataDir)
}

// resolve returns the first non-empty candidate made absolute, or the
// platform default.
func resolve(flag, env, configValue string, fallback func() (string, error)) (string, error) {
	for _, candidate := range []string{flag, env, configValue} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	return fallback()
}
