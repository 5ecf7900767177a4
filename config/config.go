// Package config loads player configuration from ecg-player.yaml with
// ECG_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Viewport struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Fetch struct {
	TimeoutSec int   `mapstructure:"timeout_sec"`
	MaxBytes   int64 `mapstructure:"max_bytes"`
}

type Render struct {
	Format           string `mapstructure:"format"` // html or png
	OutDir           string `mapstructure:"out_dir"`
	ChromeTimeoutSec int    `mapstructure:"chrome_timeout_sec"`
}

type Root struct {
	LogLevel   string   `mapstructure:"log_level"`
	SyncOffset float64  `mapstructure:"sync_offset"` // sec, positive delays captions
	PollHz     int      `mapstructure:"poll_hz"`
	Viewport   Viewport `mapstructure:"viewport"`
	Fetch      Fetch    `mapstructure:"fetch"`
	Render     Render   `mapstructure:"render"`
}

// Load reads ecg-player.yaml from the working directory or $ECG_CONFIG,
// falling back to defaults when no file exists.
func Load() (*Root, error) {
	v := viper.New()
	v.SetConfigName("ecg-player")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv("ECG_CONFIG"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("ECG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("sync_offset", 0.0)
	v.SetDefault("poll_hz", 60)
	v.SetDefault("viewport.width", 1280)
	v.SetDefault("viewport.height", 720)
	v.SetDefault("fetch.timeout_sec", 15)
	v.SetDefault("fetch.max_bytes", 10_000_000)
	v.SetDefault("render.format", "html")
	v.SetDefault("render.out_dir", ".")
	v.SetDefault("render.chrome_timeout_sec", 30)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func (r *Root) FetchTimeout() time.Duration {
	return time.Duration(r.Fetch.TimeoutSec) * time.Second
}

func (r *Root) ChromeTimeout() time.Duration {
	return time.Duration(r.Render.ChromeTimeoutSec) * time.Second
}

// Template is the commented config file written by `ecg-player config init`.
const Template = `# ecg-player configuration
log_level: info      # debug, info, warn, error
sync_offset: 0.0     # sec; positive delays captions, negative advances them
poll_hz: 60          # fallback sampling rate when frame callbacks are absent

viewport:
  width: 1280
  height: 720

fetch:
  timeout_sec: 15
  max_bytes: 10000000

render:
  format: html       # html or png
  out_dir: .
  chrome_timeout_sec: 30
`

// WriteTemplate writes the default config file, refusing to clobber an
// existing one.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	return os.WriteFile(path, []byte(Template), 0o644)
}
