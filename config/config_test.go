package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	// WHAT: no config file means the full default configuration.
	// WHY: the app must start on a fresh machine with zero setup.
	t.Setenv("PLUME_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("PLUME_LOG_LEVEL", "")
	t.Setenv("PLUME_LOG_FORMAT", "")
	t.Setenv("PLUME_EVENT_LOG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		Log:  LogConfig{Level: "info", Format: "text"},
		Zoom: ZoomConfig{Min: 0.2, Max: 6.0, Step: 0.1, Initial: 1.0},
		Edit: EditConfig{DebounceWindow: 250 * time.Millisecond},
		Font: FontConfig{Name: "Helvetica", Size: 12},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_PartialOverride(t *testing.T) {
	// WHAT: file values win where set; defaults fill the rest.
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
log:
  level: debug
zoom:
  max: 4.0
edit:
  debounce_window: 500ms
font:
  name: Courier
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Zoom.Max != 4.0 || cfg.Zoom.Min != 0.2 {
		t.Errorf("zoom = %+v", cfg.Zoom)
	}
	if cfg.Edit.DebounceWindow != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Edit.DebounceWindow)
	}
	if cfg.Font.Name != "Courier" || cfg.Font.Size != 12 {
		t.Errorf("font = %+v", cfg.Font)
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	// WHAT: PLUME_* variables override file values and defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLUME_CONFIG", path)
	t.Setenv("PLUME_LOG_LEVEL", "error")
	t.Setenv("PLUME_LOG_FORMAT", "json")
	t.Setenv("PLUME_EVENT_LOG", "/tmp/plume-events.db")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("level = %q, want error (env wins over file)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("format = %q", cfg.Log.Format)
	}
	if cfg.EventLog.Path != "/tmp/plume-events.db" {
		t.Errorf("event log path = %q", cfg.EventLog.Path)
	}
}
