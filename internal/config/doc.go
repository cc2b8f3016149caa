// Package config loads, validates, and defaults the storyboard TOML
// configuration file.
package config
