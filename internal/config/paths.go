package config

import (
	"os"
	"path/filepath"
)

const (
	appDirName       = "tuxport"
	settingsFileName = "settings.json"
)

// DefaultPath returns the per-user settings file location:
// <UserConfigDir>/tuxport/settings.json, falling back to ~/.config.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), appDirName, settingsFileName)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appDirName, settingsFileName)
}

// defaultFolder is the browse start directory when none is configured.
func defaultFolder() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return os.TempDir()
	}
	return home
}
