package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/randomtoy/arcano/internal/entropy"
)

const appDir = "arcano"

// Settings is the CLI configuration stored as TOML.
type Settings struct {
	DefaultSpread string `toml:"default_spread"`
	HistoryDB     string `toml:"history_db"`
	Entropy       string `toml:"entropy"`
}

// DataHome returns XDG_DATA_HOME or its default.
func DataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// ConfigHome returns XDG_CONFIG_HOME or its default.
func ConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

func DefaultSettingsPath() string {
	return filepath.Join(ConfigHome(), appDir, "config.toml")
}

func DefaultSettings() Settings {
	return Settings{
		DefaultSpread: "tres_cartas",
		HistoryDB:     filepath.Join(DataHome(), appDir, "history.db"),
		Entropy:       string(entropy.ModeAuto),
	}
}

// LoadSettings reads the settings file at path, writing defaults first if it
// does not exist. Blank values fall back to defaults; unknown keys are an error.
func LoadSettings(path string) (Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		s := DefaultSettings()
		if err := SaveSettings(path, s); err != nil {
			return Settings{}, err
		}
		return s, nil
	}

	var s Settings
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Settings{}, fmt.Errorf("settings %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	def := DefaultSettings()
	if s.DefaultSpread == "" {
		s.DefaultSpread = def.DefaultSpread
	}
	if s.HistoryDB == "" {
		s.HistoryDB = def.HistoryDB
	}
	if s.Entropy == "" {
		s.Entropy = def.Entropy
	}
	return s, nil
}

func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return nil
}
