// SPDX-License-Identifier: EPL-2.0

package sndkit

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/ik5/sndkit/header"
	"github.com/ik5/sndkit/internal/logger"
	"github.com/ik5/sndkit/sample"
)

// RawConfig is how headerless files are interpreted.
type RawConfig struct {
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	SampleType string `yaml:"sample_type"` // short name, e.g. "bshort"
}

// CacheConfig tunes the header cache.
type CacheConfig struct {
	// PruneOnLoad drops entries for deleted files when the config is applied.
	PruneOnLoad bool `yaml:"prune_on_load"`
}

// Config is the process-wide setup, usually read from YAML:
//
//	raw:
//	  sample_rate: 8000
//	  channels: 1
//	  sample_type: mulaw
//	clipping: true
//	log_level: info
type Config struct {
	Raw      RawConfig   `yaml:"raw"`
	Clipping bool        `yaml:"clipping"`
	LogLevel string      `yaml:"log_level,omitempty"`
	Cache    CacheConfig `yaml:"cache"`
}

var clipping atomic.Bool

func clippingDefault() bool { return clipping.Load() }

// DefaultConfig mirrors the built-in defaults.
func DefaultConfig() Config {
	rd := header.RawDefaultsValue()
	return Config{
		Raw: RawConfig{
			SampleRate: rd.SampleRate,
			Channels:   rd.Chans,
			SampleType: rd.SampleType.String(),
		},
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) rawDefaults() (header.RawDefaults, error) {
	st, err := sample.ParseType(c.Raw.SampleType)
	if err != nil {
		return header.RawDefaults{}, fmt.Errorf("raw.sample_type: %w", err)
	}
	return header.RawDefaults{SampleRate: c.Raw.SampleRate, Chans: c.Raw.Channels, SampleType: st}, nil
}

// Validate checks the config without applying it.
func (c Config) Validate() error {
	rd, err := c.rawDefaults()
	if err != nil {
		return err
	}
	if rd.SampleRate <= 0 || rd.Chans <= 0 {
		return fmt.Errorf("%w: raw defaults need a positive rate and channel count", ErrBadSize)
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// Apply installs the config: raw defaults, the clipping default for new
// write handles and the log level.
func (c Config) Apply() error {
	rd, err := c.rawDefaults()
	if err != nil {
		return err
	}
	if err := header.SetRawDefaults(rd); err != nil {
		return err
	}
	clipping.Store(c.Clipping)
	if c.LogLevel != "" {
		l, err := logger.ParseLevel(c.LogLevel)
		if err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		logger.SetLevel(l)
	}
	if c.Cache.PruneOnLoad {
		defaultCache.PruneMissing()
	}
	logger.Debug("config applied", "raw_rate", rd.SampleRate, "raw_chans", rd.Chans,
		"raw_type", rd.SampleType.String(), "clipping", c.Clipping)
	return nil
}
