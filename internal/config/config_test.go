package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.SideBarWidth != 0 {
		t.Fatalf("expected no side bar by default, got %v", cfg.SideBarWidth)
	}
	if cfg.Window.Width != 1014 || cfg.Window.Height != 60 {
		t.Fatalf("unexpected default window %+v", cfg.Window)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Fatalf("expected Exists=false")
	}
	if res.Config.PollInterval != 500*time.Millisecond {
		t.Fatalf("expected default poll interval, got %v", res.Config.PollInterval)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Settings.Backend != SettingsBackendFile {
		t.Fatalf("expected file backend, got %q", res.Config.Settings.Backend)
	}
}

func TestLoadFromPath_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t,
		"poll_interval: 250ms",
		"side_bar_width: 24",
		"hotkeys:",
		"  close: Mod4-Mod1-q",
		"settings:",
		"  backend: sqlite",
	)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("expected poll_interval 250ms, got %v", cfg.PollInterval)
	}
	if cfg.SideBarWidth != 24 {
		t.Fatalf("expected side_bar_width 24, got %v", cfg.SideBarWidth)
	}
	if cfg.Hotkeys.Close != "Mod4-Mod1-q" || cfg.Hotkeys.DockTop != "Mod4-Mod1-Up" {
		t.Fatalf("expected close overridden and dock_top kept, got %+v", cfg.Hotkeys)
	}
	if cfg.MoveDuration != 350*time.Millisecond {
		t.Fatalf("expected default move_duration, got %v", cfg.MoveDuration)
	}
	if !strings.HasSuffix(mustSettingsPath(t, cfg), "settings.db") {
		t.Fatalf("expected sqlite settings path")
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "gap_size: 4")); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t,
		"log_level: info",
		"window:",
		"  width: -5",
	)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "window.width" {
		t.Fatalf("expected path window.width, got %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected line 3, got %d", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), path+":3:") {
		t.Fatalf("expected file location in message, got %q", err.Error())
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"poll", func(c *Config) { c.PollInterval = 0 }, "poll_interval"},
		{"frame", func(c *Config) { c.FrameInterval = time.Second }, "frame_interval"},
		{"sidebar", func(c *Config) { c.SideBarWidth = 2000 }, "side_bar_width"},
		{"backend", func(c *Config) { c.Settings.Backend = "etcd" }, "settings.backend"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		var verr *ValidationError
		if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != tc.path {
			t.Fatalf("%s: expected validation error at %q, got %v", tc.name, tc.path, err)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := DefaultConfig()
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	} {
		cfg.LogLevel = level
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("%s: expected %v, got %v", level, want, got)
		}
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.TeleportDuration = 600 * time.Millisecond
	cfg.Hotkeys.Toggle = ""

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TeleportDuration != 600*time.Millisecond {
		t.Fatalf("expected teleport_duration kept, got %v", res.Config.TeleportDuration)
	}
	if _, ok := res.Config.Hotkeys.Bindings()["toggle"]; ok {
		t.Fatalf("expected empty toggle hotkey to stay unbound")
	}
}

func TestExplain(t *testing.T) {
	path := writeConfig(t, "side_bar_width: 12")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "side_bar_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != 12 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected explain result %v from %v", value, src)
	}

	_, src, err = Explain(res, "window.height")
	if err != nil || src.Kind != SourceDefault {
		t.Fatalf("expected default source for window.height, got %v (%v)", src, err)
	}

	if _, _, err := Explain(res, "nope"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func mustSettingsPath(t *testing.T, cfg *Config) string {
	t.Helper()
	path, err := cfg.SettingsPath()
	if err != nil {
		t.Fatalf("settings path: %v", err)
	}
	return path
}
