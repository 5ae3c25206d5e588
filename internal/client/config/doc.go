// Package config loads runtime configuration for the gophtodo terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://localhost:8080/api",
//	  "db_path": "todo.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "log_level": "info",
//	  "log_file": "",
//	  "guest_mode": false
//	}
//
// Environment variables are not read.
package config
