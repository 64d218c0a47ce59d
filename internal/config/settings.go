// Package config holds the persisted user settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SiirRandall/tuxport/internal/logging"
)

// Theme is the colour scheme of the GUI.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Default values
const (
	DefaultTheme        = ThemeDark
	DefaultLauncherPath = "wine"
)

// ErrNoSettingsFile is returned by Read when the file does not exist yet.
var ErrNoSettingsFile = errors.New("settings file does not exist")

// Settings is the whole persisted record. It is always saved wholesale.
type Settings struct {
	Theme         Theme  `json:"theme"`
	DefaultFolder string `json:"default_folder"`
	LauncherPath  string `json:"launcher_path"`
}

// Defaults returns the settings used when nothing usable is on disk.
func Defaults() Settings {
	return Settings{
		Theme:         DefaultTheme,
		DefaultFolder: defaultFolder(),
		LauncherPath:  DefaultLauncherPath,
	}
}

// withDefaults fills every empty or invalid field from Defaults.
func (s Settings) withDefaults() Settings {
	d := Defaults()
	if !s.Theme.Valid() {
		s.Theme = d.Theme
	}
	if s.DefaultFolder == "" {
		s.DefaultFolder = d.DefaultFolder
	}
	if s.LauncherPath == "" {
		s.LauncherPath = d.LauncherPath
	}
	return s
}

// Store reads and writes Settings at a fixed path.
type Store struct {
	Path string
	log  *logging.Logger
}

// NewStore creates a store for path; an empty path means DefaultPath().
func NewStore(path string, log *logging.Logger) *Store {
	if path == "" {
		path = DefaultPath()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Store{Path: path, log: log}
}

// Read returns the stored settings merged over the defaults. The settings are
// always usable; the error explains why defaults were substituted.
func (s *Store) Read() (Settings, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), ErrNoSettingsFile
		}
		return Defaults(), fmt.Errorf("read settings: %w", err)
	}

	var stored Settings
	if err := json.Unmarshal(data, &stored); err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", s.Path, err)
	}
	return stored.withDefaults(), nil
}

// Load is Read with the error suppressed. A missing file is normal on first
// start; anything else is logged.
func (s *Store) Load() Settings {
	settings, err := s.Read()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSettingsFile):
		s.log.Debugf("No settings at %s, using defaults", s.Path)
	default:
		s.log.Warn().Err(err).Msg("Settings unreadable, using defaults")
	}
	return settings
}

// Save overwrites the settings file with settings.
func (s *Store) Save(settings Settings) error {
	settings = settings.withDefaults()

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("could not create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
