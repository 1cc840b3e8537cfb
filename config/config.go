// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config defines the configuration of a globals
// context and loads it from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/molview/buffer"
)

const prefix = "config: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Config is the configuration of a globals context.
type Config struct {
	// Debug enables debug mode regardless of Query.
	Debug bool `toml:"debug" yaml:"debug"`
	// Query is a URL query string (e.g., "debug=1&x=y").
	Query string `toml:"query" yaml:"query"`
	// UserAgent identifies the host browser, if any.
	UserAgent string `toml:"user_agent" yaml:"user_agent"`
	// StrictRegistries makes registries reject duplicate
	// keys.
	StrictRegistries bool `toml:"strict_registries" yaml:"strict_registries"`

	Log    Log           `toml:"log" yaml:"log"`
	Buffer buffer.Params `toml:"buffer" yaml:"buffer"`
}

// Log configures logging.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// Format is either text or json.
	Format string `toml:"format" yaml:"format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log:    Log{Level: "info", Format: "text"},
		Buffer: buffer.DefaultParams(),
	}
}

// Load reads the configuration file at path.
// The format is chosen by extension: .toml, .yaml or .yml.
// Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf(prefix+"%w", err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(b), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf(prefix+"%s: %w", path, err)
		}
		if und := md.Undecoded(); len(und) > 0 {
			return Config{}, fmt.Errorf(prefix+"%s: unknown key %q", path, und[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		// An empty document leaves the defaults in place.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf(prefix+"%s: %w", path, err)
		}
	default:
		return Config{}, newErr("unsupported file type " + ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that c's values are in range.
func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return newErr("invalid log format " + c.Log.Format)
	}
	if err := c.Buffer.Check(); err != nil {
		return fmt.Errorf(prefix+"%w", err)
	}
	return nil
}

func (l Log) level() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, newErr("invalid log level " + l.Level)
}

// SlogLevel returns the slog level named by l.Level.
// Invalid names yield slog.LevelInfo.
func (l Log) SlogLevel() slog.Level {
	lv, _ := l.level()
	return lv
}
