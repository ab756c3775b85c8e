// Package config handles configuration loading for vitanote.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion. Every key is optional; Default supplies the rest.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from VITANOTE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/vitanote/config.yaml
//  3. ~/.config/vitanote/config.yaml
//
// A file ending in .toml is parsed as TOML. A .env file in the same directory
// is loaded before expansion and never overrides variables already set.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  dir: "${VITANOTE_DATA_DIR}"
//
// # Example
//
//	database:
//	  dir: "~/health"          # empty: host or platform data dir
//	  file: "vitanote.db"
//	  driver: "sqlite"         # or "sqlite3" for the cgo driver
//
//	paging:
//	  default_page_size: 20
//	  default_history_limit: 50
//
//	logging:
//	  level: "info"            # debug, info, warn, error
//	  format: "text"           # text or json
package config
