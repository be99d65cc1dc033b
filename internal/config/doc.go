// Package config loads application configuration for the analysis
// CLIs. Precedence is defaults, then an optional YAML file, then
// GRIDLENS_* environment variables; the merged result is validated
// with struct tags before use.
package config
