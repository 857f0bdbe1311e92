// Package config defines configuration for the mlhub CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (MLHUB_ prefix)
//   - YAML configuration file
//
// The API token is plain configuration here; only the CLI composition root
// reads MLHUB_ACCESS_TOKEN from the process environment.
package config
