package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SettingsBackendFile   = "file"
	SettingsBackendSQLite = "sqlite"
)

// WindowConfig is the size of the simulator window.
type WindowConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HotkeyConfig maps user commands to X11 key sequences. An empty binding
// disables the command's hotkey.
type HotkeyConfig struct {
	DockTop    string `yaml:"dock_top"`
	DockBottom string `yaml:"dock_bottom"`
	Undock     string `yaml:"undock"`
	Toggle     string `yaml:"toggle"`
	Close      string `yaml:"close"`
}

// Bindings returns command name to key sequence for every non-empty hotkey.
func (h HotkeyConfig) Bindings() map[string]string {
	out := make(map[string]string)
	for name, key := range map[string]string{
		"dock_top":    h.DockTop,
		"dock_bottom": h.DockBottom,
		"undock":      h.Undock,
		"toggle":      h.Toggle,
		"close":       h.Close,
	} {
		if strings.TrimSpace(key) != "" {
			out[name] = key
		}
	}
	return out
}

type SettingsConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	PollInterval      time.Duration  `yaml:"poll_interval"`
	FrameInterval     time.Duration  `yaml:"frame_interval"`
	MoveDuration      time.Duration  `yaml:"move_duration"`
	TeleportDuration  time.Duration  `yaml:"teleport_duration"`
	Window            WindowConfig   `yaml:"window"`
	SideBarWidth      float64        `yaml:"side_bar_width"`
	Hotkeys           HotkeyConfig   `yaml:"hotkeys"`
	Settings          SettingsConfig `yaml:"settings"`
	ShowOnAllDesktops bool           `yaml:"show_on_all_desktops"`
	Display           string         `yaml:"display,omitempty"`
	LogLevel          string         `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		PollInterval:     500 * time.Millisecond,
		FrameInterval:    time.Second / 60,
		MoveDuration:     350 * time.Millisecond,
		TeleportDuration: 450 * time.Millisecond,
		Window: WindowConfig{
			Width:  1014,
			Height: 60,
		},
		Hotkeys: HotkeyConfig{
			DockTop:    "Mod4-Mod1-Up",   // Super+Alt+Up
			DockBottom: "Mod4-Mod1-Down", // Super+Alt+Down
			Undock:     "Mod4-Mod1-f",    // Super+Alt+F for "float"
			Toggle:     "Mod4-Mod1-b",
		},
		Settings: SettingsConfig{
			Backend: SettingsBackendFile,
		},
		ShowOnAllDesktops: true,
		LogLevel:          "info",
	}
}

// ValidationError points at the offending config key and, when the value
// came from a file, its location.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (c *Config) Validate() error {
	positive := []struct {
		path  string
		value time.Duration
	}{
		{"poll_interval", c.PollInterval},
		{"frame_interval", c.FrameInterval},
		{"move_duration", c.MoveDuration},
		{"teleport_duration", c.TeleportDuration},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Path: p.path, Err: fmt.Errorf("must be positive, got %s", p.value)}
		}
	}
	if c.FrameInterval > c.MoveDuration {
		return &ValidationError{Path: "frame_interval", Err: fmt.Errorf("must not exceed move_duration (%s)", c.MoveDuration)}
	}

	if c.Window.Width <= 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("must be positive, got %v", c.Window.Width)}
	}
	if c.Window.Height <= 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("must be positive, got %v", c.Window.Height)}
	}
	if c.SideBarWidth < 0 || c.SideBarWidth >= c.Window.Width {
		return &ValidationError{Path: "side_bar_width", Err: fmt.Errorf("must be in [0, window.width), got %v", c.SideBarWidth)}
	}

	switch c.Settings.Backend {
	case SettingsBackendFile, SettingsBackendSQLite:
	default:
		return &ValidationError{Path: "settings.backend", Err: fmt.Errorf("invalid backend %q (must be file or sqlite)", c.Settings.Backend)}
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("invalid log_level %q (must be debug, info, warn, or error)", c.LogLevel)}
	}
	return nil
}

// SlogLevel maps log_level onto a slog level. Unknown values fall back to
// info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SettingsPath returns where persisted window settings live for the
// configured backend.
func (c *Config) SettingsPath() (string, error) {
	if p := strings.TrimSpace(c.Settings.Path); p != "" {
		return expandHome(p)
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if c.Settings.Backend == SettingsBackendSQLite {
		return filepath.Join(dir, "settings.db"), nil
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
