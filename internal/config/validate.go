package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	if strings.TrimSpace(c.Gemini.BaseURL) == "" {
		return errors.New("gemini.base_url must be set")
	}
	if strings.TrimSpace(c.Gemini.TextModel) == "" {
		return errors.New("gemini.text_model must be set")
	}
	if strings.TrimSpace(c.Gemini.ImageModel) == "" {
		return errors.New("gemini.image_model must be set")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini.timeout_seconds must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// RequireAPIKey returns an error when no Gemini API key is configured.
// Commands that talk to the generation backend call this up front; read-only
// commands do not.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Gemini.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/storyboard/config.toml"
	}
	return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY or edit %s (create with 'storyboard config init')", defaultPath)
}
