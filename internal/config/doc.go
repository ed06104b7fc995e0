// Package config loads shabd settings from TOML or YAML files layered over
// built-in defaults. Command-line flags override individual values after
// loading.
package config
