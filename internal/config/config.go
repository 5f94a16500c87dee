// SPDX-License-Identifier: EPL-2.0

// Package config loads audclip settings from a JSON file overlaid by
// AUDCLIP_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/edit"
	"github.com/ik5/audclip/encode"
	"github.com/ik5/audclip/peaks"
	"github.com/ik5/audclip/silence"
)

// Duration is a time.Duration written as "90s" or "2m" in JSON.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds the settings shared by every command.
type Config struct {
	// Encoding
	FFmpegPath     string   `json:"ffmpeg_path"`
	EncodeTimeout  Duration `json:"encode_timeout"`
	DefaultFormat  string   `json:"default_format"`
	DefaultQuality string   `json:"default_quality"`
	OutputDir      string   `json:"output_dir"`

	// Memory; 0 disables the limit
	MaxBufferSeconds float64 `json:"max_buffer_seconds"`

	// Editing defaults
	NormalizeTarget    float64 `json:"normalize_target"`
	SilenceThreshold   float64 `json:"silence_threshold"`
	SilenceMinDuration float64 `json:"silence_min_duration"`
	PeaksCount         int     `json:"peaks_count"`

	LogLevel string `json:"log_level"`
}

func Default() *Config {
	return &Config{
		FFmpegPath:     "ffmpeg",
		EncodeTimeout:  Duration(5 * time.Minute),
		DefaultFormat:  encode.WAV.String(),
		DefaultQuality: encode.Medium.String(),
		OutputDir:      ".",

		MaxBufferSeconds: 3600,

		NormalizeTarget:    edit.DefaultNormalizeTarget,
		SilenceThreshold:   silence.DefaultThreshold,
		SilenceMinDuration: silence.DefaultMinDuration,
		PeaksCount:         peaks.DefaultCount,

		LogLevel: logrus.InfoLevel.String(),
	}
}

// Load reads path over the defaults, then applies the environment. A
// missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Save writes c as indented JSON, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	float := func(key string, dst *float64) error {
		if v := getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
		return nil
	}

	str("AUDCLIP_FFMPEG", &c.FFmpegPath)
	str("AUDCLIP_FORMAT", &c.DefaultFormat)
	str("AUDCLIP_QUALITY", &c.DefaultQuality)
	str("AUDCLIP_OUTPUT_DIR", &c.OutputDir)
	str("AUDCLIP_LOG_LEVEL", &c.LogLevel)

	if v := getenv("AUDCLIP_ENCODE_TIMEOUT"); v != "" {
		if err := c.EncodeTimeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("AUDCLIP_ENCODE_TIMEOUT: %w", err)
		}
	}
	if v := getenv("AUDCLIP_PEAKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUDCLIP_PEAKS: %w", err)
		}
		c.PeaksCount = n
	}

	for key, dst := range map[string]*float64{
		"AUDCLIP_MAX_BUFFER_SECONDS":   &c.MaxBufferSeconds,
		"AUDCLIP_NORMALIZE_TARGET":     &c.NormalizeTarget,
		"AUDCLIP_SILENCE_THRESHOLD":    &c.SilenceThreshold,
		"AUDCLIP_SILENCE_MIN_DURATION": &c.SilenceMinDuration,
	} {
		if err := float(key, dst); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks every field that has a restricted range.
func (c *Config) Validate() error {
	if _, err := encode.ParseFormat(c.DefaultFormat); err != nil {
		return fmt.Errorf("default_format: %w", err)
	}
	if _, err := encode.ParseQuality(c.DefaultQuality); err != nil {
		return fmt.Errorf("default_quality: %w", err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.EncodeTimeout < 0 {
		return fmt.Errorf("encode_timeout: %w: %v", audio.ErrRange, time.Duration(c.EncodeTimeout))
	}
	if c.MaxBufferSeconds < 0 {
		return fmt.Errorf("max_buffer_seconds: %w: %v", audio.ErrRange, c.MaxBufferSeconds)
	}
	if c.NormalizeTarget <= 0 || c.NormalizeTarget > 1 {
		return fmt.Errorf("normalize_target: %w: %v", audio.ErrRange, c.NormalizeTarget)
	}
	if c.PeaksCount <= 0 {
		return fmt.Errorf("peaks_count: %w: %d", audio.ErrRange, c.PeaksCount)
	}

	return c.SilenceOptions().Validate()
}

func (c *Config) Format() encode.Format {
	f, _ := encode.ParseFormat(c.DefaultFormat)
	return f
}

func (c *Config) Quality() encode.Quality {
	q, _ := encode.ParseQuality(c.DefaultQuality)
	return q
}

func (c *Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

func (c *Config) SilenceOptions() silence.Options {
	return silence.Options{Threshold: c.SilenceThreshold, MinDuration: c.SilenceMinDuration}
}

// Allocator caps buffers at MaxBufferSeconds of audio with the given shape.
func (c *Config) Allocator(channels, sampleRate int) audio.Allocator {
	if c.MaxBufferSeconds <= 0 {
		return audio.HeapAllocator{}
	}
	return audio.NewLimitAllocatorSeconds(c.MaxBufferSeconds, channels, sampleRate)
}
