package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go-practice/audio"
	"go-practice/debug"
	"go-practice/loop"
	"go-practice/practice"
	"go-practice/tempo"
	"go-practice/trainer"
)

// MetronomeConfig holds the metronome defaults
type MetronomeConfig struct {
	Tempo         int     `yaml:"tempo"`
	TimeSignature string  `yaml:"time_signature"`
	Accent        bool    `yaml:"accent"`
	Volume        float64 `yaml:"volume"`
}

// LoopConfig holds the loop section defaults
type LoopConfig struct {
	MaxLoops int `yaml:"max_loops"`
}

// SessionConfig describes the score the player loads
type SessionConfig struct {
	TotalNotes int `yaml:"total_notes"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette  string `yaml:"palette,omitempty"` // GIMP .gpl file, empty for built-in
	Tab      string `yaml:"tab"`
	Expanded bool   `yaml:"expanded"`
}

// DebugConfig turns on the file log
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Metronome MetronomeConfig  `yaml:"metronome"`
	Trainer   trainer.Schedule `yaml:"trainer"`
	Loop      LoopConfig       `yaml:"loop"`
	Session   SessionConfig    `yaml:"session"`
	UI        UIConfig         `yaml:"ui"`
	Debug     DebugConfig      `yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	opts := practice.DefaultOptions()
	return &Config{
		Metronome: MetronomeConfig{
			Tempo:         opts.Tempo,
			TimeSignature: opts.TimeSignature.String(),
			Accent:        opts.Accent,
			Volume:        opts.Volume,
		},
		Trainer: opts.Schedule,
		Session: SessionConfig{TotalNotes: opts.TotalNotes},
		UI: UIConfig{
			Tab:      opts.Tab.Key(),
			Expanded: opts.Expanded,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locating home directory")
	}
	return filepath.Join(home, ".config", "go-practice"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, or returns defaults if not found. An empty
// path means ConfigPath. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			debug.Log("config", "no config at %s, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to path, creating the directory. An empty path
// means ConfigPath.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing %s", path)
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "encoding config")
}

// Normalize clamps every field to its legal domain
func (c *Config) Normalize() {
	c.Metronome.Tempo = tempo.Clamp(c.Metronome.Tempo)
	if _, err := tempo.ParseTimeSignature(c.Metronome.TimeSignature); err != nil {
		debug.Warn("config", err, "falling back to 4/4")
		c.Metronome.TimeSignature = tempo.CommonTime.String()
	}
	c.Metronome.Volume = audio.ClampVolume(c.Metronome.Volume)

	c.Trainer = c.Trainer.Normalize()

	if !validMaxLoops(c.Loop.MaxLoops) {
		c.Loop.MaxLoops = 0
	}
	c.Session.TotalNotes = max(c.Session.TotalNotes, 0)
	c.UI.Tab = practice.ParseTab(c.UI.Tab).Key()
}

func validMaxLoops(n int) bool {
	for _, c := range loop.MaxLoopChoices {
		if c == n {
			return true
		}
	}
	return false
}

// Options converts the config into shell options
func (c *Config) Options() practice.Options {
	opts := practice.DefaultOptions()
	opts.Tempo = tempo.Clamp(c.Metronome.Tempo)
	if ts, err := tempo.ParseTimeSignature(c.Metronome.TimeSignature); err == nil {
		opts.TimeSignature = ts
	}
	opts.Accent = c.Metronome.Accent
	opts.Volume = audio.ClampVolume(c.Metronome.Volume)
	opts.Schedule = c.Trainer.Normalize()
	opts.MaxLoops = c.Loop.MaxLoops
	opts.TotalNotes = max(c.Session.TotalNotes, 0)
	opts.Tab = practice.ParseTab(c.UI.Tab)
	opts.Expanded = c.UI.Expanded
	return opts
}
