// Package config loads tool configuration: built-in defaults, then an
// optional TOML file, then SCREENREC_* environment overrides, in that
// order. A .env file in the working directory is honored before the
// environment is read.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config carries the resolved defaults for a screenrec run. Command-line
// flags still override everything here.
type Config struct {
	LogLevel string

	// Recording defaults.
	DefaultScreen       int
	DefaultFPS          int
	DefaultQuality      string
	DefaultAudio        bool
	DefaultAudioQuality string
	DefaultCountdown    int
	ShowCursor          bool

	// OutputDir is where generated file names land when --output is not
	// given.
	OutputDir string

	// ScaleOverride forces the device-pixel scale on platforms where
	// discovery is unavailable. 0 means auto.
	ScaleOverride float64

	// ExcludedAudioDevices are name fragments never picked as the
	// recording input device.
	ExcludedAudioDevices []string

	FFmpegPath         string
	FinalizeTimeoutSec float64
}

// fileConfig is the TOML file shape. Pointer fields distinguish "absent"
// from zero values.
type fileConfig struct {
	LogLevel             string   `toml:"log_level"`
	Screen               *int     `toml:"screen"`
	FPS                  int      `toml:"fps"`
	Quality              string   `toml:"quality"`
	Audio                *bool    `toml:"audio"`
	AudioQuality         string   `toml:"audio_quality"`
	Countdown            *int     `toml:"countdown"`
	Cursor               *bool    `toml:"cursor"`
	OutputDir            string   `toml:"output_dir"`
	ScaleOverride        float64  `toml:"scale_override"`
	ExcludedAudioDevices []string `toml:"excluded_audio_devices"`
	FFmpegPath           string   `toml:"ffmpeg_path"`
	FinalizeTimeoutSec   float64  `toml:"finalize_timeout_seconds"`
}

// Load resolves the configuration. A malformed config file is reported and
// skipped rather than aborting the run.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()
	if path := configFilePath(); path != "" {
		applyFile(cfg, path)
	}
	applyEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		LogLevel:             "info",
		DefaultScreen:        0,
		DefaultFPS:           30,
		DefaultQuality:       "medium",
		DefaultAudio:         false,
		DefaultAudioQuality:  "medium",
		DefaultCountdown:     3,
		ShowCursor:           true,
		OutputDir:            defaultOutputDir(),
		ExcludedAudioDevices: []string{"iphone", "teams"},
		FFmpegPath:           "ffmpeg",
		FinalizeTimeoutSec:   10,
	}
}

func applyFile(cfg *Config, path string) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		slog.Warn("ignoring unreadable config file", "path", path, "error", err)
		return
	}

	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.Screen != nil {
		cfg.DefaultScreen = *fc.Screen
	}
	if fc.FPS != 0 {
		cfg.DefaultFPS = fc.FPS
	}
	if fc.Quality != "" {
		cfg.DefaultQuality = fc.Quality
	}
	if fc.Audio != nil {
		cfg.DefaultAudio = *fc.Audio
	}
	if fc.AudioQuality != "" {
		cfg.DefaultAudioQuality = fc.AudioQuality
	}
	if fc.Countdown != nil {
		cfg.DefaultCountdown = *fc.Countdown
	}
	if fc.Cursor != nil {
		cfg.ShowCursor = *fc.Cursor
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = expandTilde(fc.OutputDir)
	}
	if fc.ScaleOverride > 0 {
		cfg.ScaleOverride = fc.ScaleOverride
	}
	if fc.ExcludedAudioDevices != nil {
		cfg.ExcludedAudioDevices = fc.ExcludedAudioDevices
	}
	if fc.FFmpegPath != "" {
		cfg.FFmpegPath = fc.FFmpegPath
	}
	if fc.FinalizeTimeoutSec > 0 {
		cfg.FinalizeTimeoutSec = fc.FinalizeTimeoutSec
	}
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnv("SCREENREC_LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultScreen = getEnvInt("SCREENREC_SCREEN", cfg.DefaultScreen)
	cfg.DefaultFPS = getEnvInt("SCREENREC_FPS", cfg.DefaultFPS)
	cfg.DefaultQuality = getEnv("SCREENREC_QUALITY", cfg.DefaultQuality)
	cfg.DefaultAudio = getEnvBool("SCREENREC_AUDIO", cfg.DefaultAudio)
	cfg.DefaultAudioQuality = getEnv("SCREENREC_AUDIO_QUALITY", cfg.DefaultAudioQuality)
	cfg.DefaultCountdown = getEnvInt("SCREENREC_COUNTDOWN", cfg.DefaultCountdown)
	cfg.ShowCursor = getEnvBool("SCREENREC_CURSOR", cfg.ShowCursor)
	if v := getEnv("SCREENREC_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = expandTilde(v)
	}
	cfg.ScaleOverride = getEnvFloat("SCREENREC_SCALE_OVERRIDE", cfg.ScaleOverride)
	cfg.ExcludedAudioDevices = getEnvList("SCREENREC_EXCLUDED_AUDIO_DEVICES", cfg.ExcludedAudioDevices)
	cfg.FFmpegPath = getEnv("SCREENREC_FFMPEG_PATH", cfg.FFmpegPath)
	cfg.FinalizeTimeoutSec = getEnvFloat("SCREENREC_FINALIZE_TIMEOUT", cfg.FinalizeTimeoutSec)
}

// FinalizeTimeout converts the configured seconds to a duration.
func (c *Config) FinalizeTimeout() time.Duration {
	return time.Duration(c.FinalizeTimeoutSec * float64(time.Second))
}

// Level maps the configured log level to slog. Unknown values mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func configFilePath() string {
	var dir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, "screenrec")
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "screenrec")
	} else {
		return ""
	}

	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultOutputDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Recordings")
	}
	return "."
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		return result
	}
	return def
}
