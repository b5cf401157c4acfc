package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Assets  AssetsConfig  `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
	Images  ImagesConfig  `yaml:"images"`
	Layouts LayoutsConfig `yaml:"layouts"`
	Edge    EdgeConfig    `yaml:"edge"`
	History HistoryConfig `yaml:"history"`
}

// SiteConfig represents site-wide metadata passed into layouts.
type SiteConfig struct {
	Title   string `yaml:"title"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// ContentConfig locates the source document tree.
type ContentConfig struct {
	Directory string `yaml:"directory"`
}

// AssetsConfig locates the static asset tree. Image sources referenced by
// optimization markers are resolved against Directory; derived variants are
// written under the same relative subpath in the output tree.
type AssetsConfig struct {
	Directory string `yaml:"directory"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// ImagesConfig controls responsive variant derivation.
type ImagesConfig struct {
	DefaultWidths []int `yaml:"default_widths,omitempty"`
	Quality       int   `yaml:"quality,omitempty"`
}

// LayoutsConfig selects the fallback layout for pages whose metadata omits one.
type LayoutsConfig struct {
	Default string `yaml:"default,omitempty"`
}

// EdgeConfig controls the generated dispatch script.
type EdgeConfig struct {
	ScriptPath string `yaml:"script_path,omitempty"` // relative to the output directory
}

// HistoryConfig controls the local build-history store.
type HistoryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Site"
	}
	if c.Content.Directory == "" {
		c.Content.Directory = "content"
	}
	if c.Assets.Directory == "" {
		c.Assets.Directory = "assets"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
	if len(c.Images.DefaultWidths) == 0 {
		c.Images.DefaultWidths = []int{320, 640, 1024}
	}
	if c.Images.Quality == 0 {
		c.Images.Quality = 80
	}
	if c.Layouts.Default == "" {
		c.Layouts.Default = "default"
	}
	if c.Edge.ScriptPath == "" {
		c.Edge.ScriptPath = "_edge/dispatch.js"
	}
	if c.History.Enabled && c.History.DatabasePath == "" {
		c.History.DatabasePath = ".edgebuilder/history.db"
	}
}

// Validate checks the configuration for obvious mistakes before any build work starts.
func (c *Config) Validate() error {
	if c.Content.Directory == "" {
		return fmt.Errorf("content.directory must not be empty")
	}
	for _, w := range c.Images.DefaultWidths {
		if w <= 0 {
			return fmt.Errorf("images.default_widths entries must be positive, got %d", w)
		}
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("images.quality must be in 1..100, got %d", c.Images.Quality)
	}
	return nil
}

// Default returns a configuration with all defaults applied, without reading a file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
