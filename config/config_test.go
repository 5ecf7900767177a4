package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// chdir mirrors testing.T.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" || cfg.PollHz != 60 {
		t.Fatalf("bad defaults: %+v", cfg)
	}
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 720 {
		t.Fatalf("bad viewport defaults: %+v", cfg.Viewport)
	}
	if cfg.Render.Format != "html" {
		t.Fatalf("bad render default: %+v", cfg.Render)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	body := `log_level: debug
sync_offset: 0.25
viewport:
  width: 640
  height: 480
render:
  format: png
`
	if err := os.WriteFile(filepath.Join(dir, "ecg-player.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.SyncOffset != 0.25 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Viewport.Width != 640 || cfg.Viewport.Height != 480 {
		t.Fatalf("viewport not applied: %+v", cfg.Viewport)
	}
	if cfg.Render.Format != "png" {
		t.Fatalf("render format not applied: %+v", cfg.Render)
	}
	// untouched keys keep their defaults
	if cfg.Fetch.TimeoutSec != 15 {
		t.Fatalf("fetch default lost: %+v", cfg.Fetch)
	}
}

func TestLoadConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ecg-player.yaml"), []byte("poll_hz: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, t.TempDir())
	t.Setenv("ECG_CONFIG", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollHz != 30 {
		t.Fatalf("ECG_CONFIG dir ignored: %+v", cfg)
	}
}

func TestTemplateIsValidYAML(t *testing.T) {
	var doc struct {
		LogLevel   string  `yaml:"log_level"`
		SyncOffset float64 `yaml:"sync_offset"`
		Viewport   struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"viewport"`
	}
	if err := yaml.Unmarshal([]byte(Template), &doc); err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if doc.LogLevel != "info" || doc.Viewport.Width != 1280 {
		t.Fatalf("template values drifted: %+v", doc)
	}
}

func TestWriteTemplateRefusesClobber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecg-player.yaml")
	if err := WriteTemplate(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteTemplate(path); err == nil {
		t.Fatal("expected an error for an existing file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Template {
		t.Fatal("written file differs from the template")
	}
}
