// Package config provides user configuration management for rtsctl.
//
// This package manages a YAML configuration file holding the Jamf Pro server
// URL, the username or API client ID, whether to authenticate with API roles,
// and a few preferences. The file follows OS-specific conventions for its
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/rtsctl/config.yaml or $HOME/.config/rtsctl/config.yaml
//   - macOS: $HOME/.config/rtsctl/config.yaml
//   - Windows: %LOCALAPPDATA%\rtsctl\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores passwords or API client secrets.
// See package credentials for how secrets are obtained.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	settings.Server.URL = "https://example.jamfcloud.com"
//	settings.Auth.UseAPIRoles = true
//
//	// Save changes atomically
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # File Format
//
// Example configuration file:
//
//	version: 1
//	server:
//	  url: https://example.jamfcloud.com
//	  timeout: 30
//	auth:
//	  username: 0a1b2c3d-api-client
//	  use_api_roles: true
//	preferences:
//	  last_profile_id: 7
//	  confirm_erase: true
package config
