// Package config handles configuration loading for the support-channel
// console.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The console needs little: the base URLs of the two backend
// services, an optional token file override, and logging settings.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	services:
//	  channel_url: "${SUPPORT_CHANNEL_API_URL}"
//	  kb_url: "${SUPPORT_CHANNEL_KB_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Services (both required):
//
//	services:
//	  channel_url: "https://chat.example.com"  # Channel admin + chat API
//	  kb_url: "https://kb.example.com"         # Knowledge-base API
//
// Authentication:
//
//	auth:
//	  token_file: "~/.config/support-admin/token"  # optional override
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("/etc/support-admin/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
