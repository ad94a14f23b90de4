package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/flow"
)

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `project:
  root: /srv/app

scan:
  skip_dirs:
    - build
    - dist
  workers: 2

flow:
  caps:
    function: 10
    block: 4

output:
  format: yaml

log:
  level: debug
  format: json

recent:
  db_path: /tmp/chillax-recent
  limit: 5

watch:
  debounce: 1s
`
	configPath := filepath.Join(tmpDir, ".chillax.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	chdir(t, tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Project.Root != "/srv/app" {
		t.Errorf("Project.Root = %q, want %q", cfg.Project.Root, "/srv/app")
	}
	if !reflect.DeepEqual(cfg.Scan.SkipDirs, []string{"build", "dist"}) {
		t.Errorf("Scan.SkipDirs = %v", cfg.Scan.SkipDirs)
	}
	if cfg.Scan.Workers != 2 {
		t.Errorf("Scan.Workers = %d, want 2", cfg.Scan.Workers)
	}
	// Unset caps keep their defaults.
	wantCaps := flow.Caps{Function: 10, Class: 5, Block: 4, Handlers: 2, HandlerBody: 2}
	if cfg.Flow.Caps != wantCaps {
		t.Errorf("Flow.Caps = %+v, want %+v", cfg.Flow.Caps, wantCaps)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Recent.DBPath != "/tmp/chillax-recent" || cfg.Recent.Limit != 5 {
		t.Errorf("Recent = %+v", cfg.Recent)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Watch.Debounce = %s, want 1s", cfg.Watch.Debounce)
	}
	if filepath.Base(cfg.ConfigFile) != ".chillax.yaml" {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if !reflect.DeepEqual(cfg.Scan.SkipDirs, want.Scan.SkipDirs) {
		t.Errorf("Scan.SkipDirs = %v, want %v", cfg.Scan.SkipDirs, want.Scan.SkipDirs)
	}
	if cfg.Flow.Caps != flow.DefaultCaps() {
		t.Errorf("Flow.Caps = %+v", cfg.Flow.Caps)
	}
	if cfg.Output.Format != "json" || cfg.Log.Level != "info" || cfg.Recent.Limit != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("Watch.Debounce = %s", cfg.Watch.Debounce)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHILLAX_LOG_LEVEL", "warn")
	t.Setenv("CHILLAX_OUTPUT_FORMAT", "yaml")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want yaml", cfg.Output.Format)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	// Registers cleanup so the value loaded from .env does not leak.
	t.Setenv("CHILLAX_LOG_FORMAT", "")
	os.Unsetenv("CHILLAX_LOG_FORMAT")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHILLAX_LOG_FORMAT=json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "yaml" || cfg.ConfigFile != path {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"yml alias", func(c *Config) { c.Output.Format = "yml" }, ""},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output format"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"bad log format", func(c *Config) { c.Log.Format = "pretty" }, "log format"},
		{"negative cap", func(c *Config) { c.Flow.Caps.Block = -1 }, "flow cap block"},
		{"skip path", func(c *Config) { c.Scan.SkipDirs = []string{"a/b"} }, "skip_dirs"},
		{"negative workers", func(c *Config) { c.Scan.Workers = -2 }, "scan workers"},
		{"zero limit", func(c *Config) { c.Recent.Limit = 0 }, "recent limit"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, "debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".chillax.yaml")

	cfg := Default()
	cfg.Flow.Caps.Function = 8
	cfg.Log.Level = "debug"
	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Flow.Caps.Function != 8 || loaded.Log.Level != "debug" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Watch.Debounce != cfg.Watch.Debounce {
		t.Errorf("Watch.Debounce = %s, want %s", loaded.Watch.Debounce, cfg.Watch.Debounce)
	}
}

func TestRecentDBPath(t *testing.T) {
	cfg := Default()
	cfg.Recent.DBPath = "/data/recent"
	if got, err := cfg.RecentDBPath(); err != nil || got != "/data/recent" {
		t.Errorf("RecentDBPath() = %q, %v", got, err)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg.Recent.DBPath = ""
	got, err := cfg.RecentDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".chillax", "recent"); got != want {
		t.Errorf("RecentDBPath() = %q, want %q", got, want)
	}
}
