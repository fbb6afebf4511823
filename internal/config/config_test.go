package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmbeddedDefaultsMatchDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded defaults drifted:\n got %+v\nwant %+v", cfg, DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults are invalid: %v", err)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home, work := isolate(t)

	cfg, src, err := Load("")
	if err != nil || src != SourceEmbedded {
		t.Fatalf("Load() = %v, %v; want embedded", src, err)
	}
	if cfg.Client.FPS != 30 {
		t.Errorf("FPS = %d, want 30", cfg.Client.FPS)
	}

	writeFile(t, filepath.Join(work, "configs", FileName), "client:\n  fps: 20\n")
	cfg, src, err = Load("")
	if err != nil || src != SourceLocal || cfg.Client.FPS != 20 {
		t.Fatalf("Load() = %d from %v (%v); want 20 from local", cfg.Client.FPS, src, err)
	}

	writeFile(t, filepath.Join(home, ".sneakbit", "configs", FileName), "client:\n  fps: 15\n")
	cfg, src, err = Load("")
	if err != nil || src != SourceUser || cfg.Client.FPS != 15 {
		t.Fatalf("Load() = %d from %v (%v); want 15 from user", cfg.Client.FPS, src, err)
	}

	custom := filepath.Join(work, "custom.yaml")
	writeFile(t, custom, "client:\n  fps: 10\n")
	cfg, src, err = Load(custom)
	if err != nil || src != SourceCustom || cfg.Client.FPS != 10 {
		t.Fatalf("Load(custom) = %d from %v (%v); want 10 from custom", cfg.Client.FPS, src, err)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	_, work := isolate(t)
	custom := filepath.Join(work, "partial.yaml")
	writeFile(t, custom, "server:\n  idle_timeout: 5m\n")

	cfg, _, err := Load(custom)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.IdleTimeout != 5*time.Minute {
		t.Errorf("IdleTimeout = %v, want 5m", cfg.Server.IdleTimeout)
	}
	if cfg.Server.Address != ":23234" {
		t.Errorf("Address = %q, want default", cfg.Server.Address)
	}
	if cfg.Joystick.FollowAfter != 48 {
		t.Errorf("FollowAfter = %v, want 48", cfg.Joystick.FollowAfter)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	_, work := isolate(t)

	if _, _, err := Load(filepath.Join(work, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	broken := filepath.Join(work, "broken.yaml")
	writeFile(t, broken, "client: [")
	if _, _, err := Load(broken); err == nil {
		t.Error("broken custom file should fail")
	}

	invalid := filepath.Join(work, "invalid.yaml")
	writeFile(t, invalid, "client:\n  fps: 0\n")
	_, _, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "client.fps") {
		t.Errorf("Load(invalid) error = %v, want client.fps", err)
	}
}

func TestBrokenUserFileFallsThrough(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".sneakbit", "configs", FileName), "engine: [")

	_, src, err := Load("")
	if err != nil || src != SourceEmbedded {
		t.Errorf("Load() = %v, %v; want embedded", src, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"language", func(c *Config) { c.Engine.Language = "" }, "engine.language"},
		{"speed", func(c *Config) { c.Engine.BaseSpeed = 0 }, "engine.base_speed"},
		{"fps", func(c *Config) { c.Client.FPS = 1000 }, "client.fps"},
		{"scale", func(c *Config) { c.Client.Scale = -1 }, "client.scale"},
		{"joystick", func(c *Config) { c.Joystick.FollowAfter = 1 }, "joystick"},
		{"metrics", func(c *Config) { c.Metrics.Enabled, c.Metrics.Address = true, "" }, "metrics.address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	want := DefaultConfig()
	want.Engine.Language = "it"
	want.Server.IdleTimeout = 90 * time.Second

	if err := Write(path, want); err != nil {
		t.Fatal(err)
	}
	got, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := isolate(t)
	if got := ExpandHome("~/.sneakbit/db"); got != filepath.Join(home, ".sneakbit", "db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome changed an absolute path: %q", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("ExpandHome changed ~user: %q", got)
	}
}
