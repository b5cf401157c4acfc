package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# edgebuilder configuration
site:
  title: "My Site"
  base_url: "https://example.com"

content:
  directory: content

assets:
  directory: assets

output:
  directory: ./public
  clean: true

images:
  default_widths: [320, 640, 1024]
  quality: 80

layouts:
  default: default

edge:
  script_path: _edge/dispatch.js

history:
  enabled: false
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
