// Package config loads the bridge daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// ScopeID names the naming scope the daemon serves, typically the
	// persistent level.
	ScopeID string `yaml:"scope_id"`
	// DataDir is the root for journals and the ledger.
	DataDir string `yaml:"data_dir"`
	// AssetTable points at the assets.json mapping; empty disables spawning.
	AssetTable string `yaml:"asset_table"`
	// MonitorListen is the loopback address of the monitor endpoint.
	MonitorListen string `yaml:"monitor_listen"`
	LogLevel      string `yaml:"log_level"`
	// DisableLedger turns the sqlite index off; the journal still runs.
	DisableLedger bool `yaml:"disable_ledger"`

	// ReservedNames are identifiers the host refuses, beyond what it
	// refuses on its own.
	ReservedNames []string `yaml:"reserved_names"`

	// SeedObjects are spawned at startup so a fresh sandbox scope is not
	// empty. They go through the ordinary command path and are journaled.
	SeedObjects []SeedObject `yaml:"seed_objects"`
}

type SeedObject struct {
	Asset string `yaml:"asset"`
	Name  string `yaml:"name"`
	// Transform is optional T=/R=/S= marker text.
	Transform string `yaml:"transform"`
}

// Load reads path and fills in defaults for anything left unset.
func Load(path string) (Config, error) {
	var c Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

// Defaults is the configuration used when no file is given.
func Defaults() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ScopeID == "" {
		c.ScopeID = "PersistentLevel"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.MonitorListen == "" {
		c.MonitorListen = "127.0.0.1:8791"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	for i, s := range c.SeedObjects {
		if s.Asset == "" {
			return fmt.Errorf("seed_objects[%d]: missing asset", i)
		}
	}
	return nil
}
