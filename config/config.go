// Package config loads the parameters of the cmd/fiberctl demo harness:
// named priority levels, the debug server's listen address, and log
// rotation settings. It configures nothing about processing policy — per
// spec.md's Non-goal, this module has no scheduler to configure — only the
// demo's own wiring.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/fiberqueue/updatequeue/common"
)

// Config is the root of a fiberctl TOML config file.
type Config struct {
	Priorities PriorityConfig `toml:"priorities"`
	Server     ServerConfig   `toml:"server"`
	Log        LogConfig      `toml:"log"`
}

// PriorityConfig maps human-readable priority names to numeric ordinals,
// so a demo script or CLI flag can say "user-blocking" instead of a raw
// uint64.
type PriorityConfig struct {
	Levels map[string]uint64 `toml:"levels"`
}

// Lookup resolves a named priority level. ok is false for an unknown name.
func (p PriorityConfig) Lookup(name string) (common.Priority, bool) {
	v, ok := p.Levels[name]
	return common.Priority(v), ok
}

// ServerConfig describes the debug HTTP/WebSocket server's listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig describes log rotation settings for the file sink.
type LogConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns a Config with the demo harness's baked-in defaults: the
// three priority tiers used throughout spec.md's worked examples, a
// loopback debug address, and file logging disabled.
func Default() Config {
	return Config{
		Priorities: PriorityConfig{Levels: map[string]uint64{
			"immediate":     3,
			"user-blocking": 2,
			"idle":          1,
		}},
		Server: ServerConfig{Addr: "127.0.0.1:8787"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads and decodes a TOML config file at path, starting from
// Default() so an incomplete file only overrides what it specifies.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
