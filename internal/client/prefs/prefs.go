// Package prefs handles the device-local preferences file. Preferences live
// next to the data, not inside the synced snapshot: relay endpoint and sync
// timing are per-device concerns.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds per-device settings for the klinik client.
type Prefs struct {
	// RelayURL is the base URL of the snapshot relay.
	RelayURL string `toml:"relay_url"`
	// DataDir holds the local store database.
	DataDir string `toml:"data_dir"`
	// DebounceSeconds is the push quiescence window.
	DebounceSeconds int `toml:"debounce_seconds"`
	// PullIntervalSeconds is the background pull cadence.
	PullIntervalSeconds int `toml:"pull_interval_seconds"`
}

const (
	defaultRelayURL     = "http://localhost:8080"
	defaultDebounce     = 2
	defaultPullInterval = 45
)

// Defaults returns the preferences used when no file exists yet.
func Defaults() Prefs {
	return Prefs{
		RelayURL:            defaultRelayURL,
		DataDir:             defaultDataDir(),
		DebounceSeconds:     defaultDebounce,
		PullIntervalSeconds: defaultPullInterval,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "klinik")
}

// DefaultPath returns the default preferences file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "prefs.toml"
	}
	return filepath.Join(home, ".config", "klinik", "prefs.toml")
}

// Load reads preferences from path, falling back to defaults when the file
// does not exist. Fields missing from the file keep their defaults.
func Load(path string) (Prefs, error) {
	p := Defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if p.DebounceSeconds <= 0 {
		p.DebounceSeconds = defaultDebounce
	}
	if p.PullIntervalSeconds <= 0 {
		p.PullIntervalSeconds = defaultPullInterval
	}
	return p, nil
}

// Save writes preferences to path, creating parent directories as needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write prefs %s: %w", path, err)
	}
	return nil
}

// Debounce returns the debounce window as a duration.
func (p Prefs) Debounce() time.Duration {
	return time.Duration(p.DebounceSeconds) * time.Second
}

// PullInterval returns the pull cadence as a duration.
func (p Prefs) PullInterval() time.Duration {
	return time.Duration(p.PullIntervalSeconds) * time.Second
}
