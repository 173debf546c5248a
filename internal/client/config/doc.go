// Package config loads runtime configuration for the divert terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-s string   path of the session database
//	-m string   storage mode: sqlite or memory
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "10s" or integer nanoseconds. Missing keys keep the default:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "storage_path": "/home/me/.config/divert/session.db",
//	  "storage_mode": "sqlite",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
