package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sigreer/lvmgraph/internal/log"
)

// Inventory source modes
const (
	SourceLive    = "live"
	SourceFixture = "fixture"
)

type Config struct {
	// Source mode: "live" or "fixture" (default fixture if fixture_dir set, live otherwise)
	Source         string        `yaml:"source,omitempty"`
	FixtureDir     string        `yaml:"fixture_dir,omitempty"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	ByteSizes      bool          `yaml:"byte_sizes"`
	DiskTypes      []string      `yaml:"disk_types"`
	Render         Render        `yaml:"render"`
	Log            Log           `yaml:"log"`
}

type Render struct {
	Format      string `yaml:"format"`
	TemplateDir string `yaml:"template_dir,omitempty"`
	Mountpoints *bool  `yaml:"mountpoints,omitempty"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// defaultConfig provides baseline settings when no config file exists
var defaultConfig = Config{
	CommandTimeout: 30 * time.Second,
	DiskTypes:      []string{"disk"},
	Render: Render{
		Format: "mermaid",
	},
	Log: Log{
		Level: "info",
	},
}

// candidatePaths are tried in order when no path is given
func candidatePaths() []string {
	return []string{
		"/etc/lvmgraph/config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/lvmgraph/config.yaml"),
		"config.yaml",
	}
}

// Load reads the config file at path, or the first existing default
// location when path is empty. With no file at all the defaults apply.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		for _, c := range candidatePaths() {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	cfg.DiskTypes = append([]string(nil), defaultConfig.DiskTypes...)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// Apply defaults for missing values
	if cfg.Render.Format == "" {
		cfg.Render.Format = defaultConfig.Render.Format
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultConfig.Log.Level
	}
	if len(cfg.DiskTypes) == 0 {
		cfg.DiskTypes = append([]string(nil), defaultConfig.DiskTypes...)
	}
	if cfg.CommandTimeout < 0 {
		return nil, fmt.Errorf("command_timeout must not be negative, got %s", cfg.CommandTimeout)
	}

	cfg.Source = cfg.SourceMode()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SourceMode returns the effective inventory source
func (c *Config) SourceMode() string {
	if c.Source != "" {
		return c.Source
	}
	// A configured fixture directory implies fixture mode
	if c.FixtureDir != "" {
		return SourceFixture
	}
	return SourceLive
}

// Validate checks settings that would otherwise fail late in the pipeline
func (c *Config) Validate() error {
	switch c.SourceMode() {
	case SourceLive:
	case SourceFixture:
		if c.FixtureDir == "" {
			return fmt.Errorf("source %q requires fixture_dir", SourceFixture)
		}
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceLive, SourceFixture)
	}
	if _, ok := log.LookupLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.Log.Level)
	}
	return nil
}

// RenderMountpoints reports whether mountpoints are drawn (default true)
func (c *Config) RenderMountpoints() bool {
	if c.Render.Mountpoints == nil {
		return true
	}
	return *c.Render.Mountpoints
}
