// Package config holds the settings of the darm tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/darm/disasm"
	"github.com/sarchlab/darm/fetch"
)

// BlockSize is the size in bytes of one decoded-instruction cache block.
const BlockSize = 64

// Config holds the settings shared by the darm commands. Every field can be
// set from a YAML file and overridden by a DARM_* environment variable.
type Config struct {
	// OmitAlways drops the AL suffix from unconditional mnemonics.
	OmitAlways bool `yaml:"omit_always" envconfig:"DARM_OMIT_ALWAYS"`

	// ShowRaw prints the raw instruction word next to each instruction.
	ShowRaw bool `yaml:"show_raw" envconfig:"DARM_SHOW_RAW"`

	// Color enables colored terminal output.
	Color bool `yaml:"color" envconfig:"DARM_COLOR"`

	// Workers is the number of goroutines decoding a listing.
	Workers int `yaml:"workers" envconfig:"DARM_WORKERS"`

	// CacheSets and CacheWays size the decoded-instruction cache.
	CacheSets int `yaml:"cache_sets" envconfig:"DARM_CACHE_SETS"`
	CacheWays int `yaml:"cache_ways" envconfig:"DARM_CACHE_WAYS"`

	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level" envconfig:"DARM_LOG_LEVEL"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OmitAlways: true,
		ShowRaw:    true,
		Color:      true,
		Workers:    4,
		CacheSets:  128,
		CacheWays:  4,
		LogLevel:   "info",
	}
}

// Load reads a Config from a YAML file. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// Save writes the Config to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from DARM_* variables found by lookup. A nil
// lookup reads the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var err error
	if lookup == nil {
		err = envconfig.Process("", c)
	} else {
		err = envconfig.Process("", c, lookup)
	}

	if err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}

	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.CacheSets <= 0 {
		return fmt.Errorf("cache_sets must be > 0")
	}
	if c.CacheSets&(c.CacheSets-1) != 0 {
		return fmt.Errorf("cache_sets must be a power of two")
	}
	if c.CacheWays <= 0 {
		return fmt.Errorf("cache_ways must be > 0")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Level returns the parsed log level, or info if LogLevel is not valid.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// FetchConfig returns the decoded-instruction cache configuration.
func (c *Config) FetchConfig() fetch.Config {
	return fetch.Config{
		Size:          c.CacheSets * c.CacheWays * BlockSize,
		Associativity: c.CacheWays,
		BlockSize:     BlockSize,
	}
}

// DisasmOptions returns the disassembler options.
func (c *Config) DisasmOptions() disasm.Options {
	return disasm.Options{
		Workers: c.Workers,
		Cache:   c.FetchConfig(),
	}
}
