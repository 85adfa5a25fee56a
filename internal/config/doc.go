// Package config loads the herald configuration.
//
// Configuration is read from a YAML (.yaml, .yml) or TOML (.toml) file.
// Before parsing, a .env file next to the configuration file is loaded
// into the environment (existing variables win) and ${VAR} references in
// the file are expanded. Finally HERALD_* environment variables override
// individual settings:
//
//	HERALD_LOG_LEVEL       logging.level
//	HERALD_LOG_FORMAT      logging.format
//	HERALD_FAKE            fake
//	HERALD_METRICS_ADDR    metrics.addr (also enables metrics)
//	HERALD_METRICS_ENABLED metrics.enabled
//
// Caller overrides passed to Load run after the environment, and Load
// validates the result; see Config.Validate.
package config
