// Package config handles configuration loading for todo-web.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Anything the file leaves out keeps its default, and the result
// is validated before use.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from TODO_WEB_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/todo-web/config.yaml
//  3. ~/.config/todo-web/config.yaml
//
// A missing file is not an error for `todo-web serve`; the defaults run an
// in-memory store on localhost:8080.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  session_secret: "${TODO_WEB_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	server:
//	  shutdown_timeout: "10s"
//	auth:
//	  session_duration: "12h"
//
// # Example
//
//	server:
//	  http_addr: "localhost:8080"
//	  shutdown_timeout: "10s"
//	database:
//	  driver: "memory"        # or "sqlite"
//	  path: ":memory:"        # sqlite file path
//	auth:
//	  session_secret: "${TODO_WEB_SECRET}"
//	  session_duration: "12h"
//	logging:
//	  level: "info"           # debug, info, warn, error
//	  format: "text"          # text or json
package config
