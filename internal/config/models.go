package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// DefaultTimeoutSeconds is the request timeout used when none is configured
const DefaultTimeoutSeconds = 30

// Settings represents the entire user configuration file.
// It stores the Jamf Pro connection details and application preferences.
type Settings struct {
	Version     int          `yaml:"version"`
	Server      *Server      `yaml:"server,omitempty"`
	Auth        *Auth        `yaml:"auth,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Server holds the Jamf Pro server connection settings
type Server struct {
	URL     string `yaml:"url"`     // e.g. https://example.jamfcloud.com
	Timeout int    `yaml:"timeout"` // Request timeout in seconds
}

// Auth holds the non-secret part of the credentials.
// Note: Secrets are NEVER stored - they come from the environment or a prompt.
type Auth struct {
	Username    string `yaml:"username"`      // Jamf Pro username, or API client ID with API roles
	UseAPIRoles bool   `yaml:"use_api_roles"` // Authenticate as an API client (OAuth)
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	LastProfileID int  `yaml:"last_profile_id,omitempty"` // Wi-Fi profile used by the last successful run
	ConfirmErase  bool `yaml:"confirm_erase"`             // Ask before sending the erase command
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.fillDefaults()
	return s
}

func (s *Settings) fillDefaults() {
	if s.Server == nil {
		s.Server = &Server{}
	}
	if s.Server.Timeout <= 0 {
		s.Server.Timeout = DefaultTimeoutSeconds
	}
	if s.Auth == nil {
		s.Auth = &Auth{}
	}
	if s.Preferences == nil {
		s.Preferences = &Preferences{ConfirmErase: true}
	}
}

// TimeoutDuration returns the configured request timeout
func (s *Settings) TimeoutDuration() time.Duration {
	if s.Server == nil || s.Server.Timeout <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.Server.Timeout) * time.Second
}

// Validate checks that the settings are complete enough to run a command.
func (s *Settings) Validate() error {
	if s.Server == nil || strings.TrimSpace(s.Server.URL) == "" {
		return fmt.Errorf("server URL is not set (run: rtsctl configure --url https://example.jamfcloud.com)")
	}
	if err := ValidateURL(s.Server.URL); err != nil {
		return err
	}
	if s.Auth == nil || strings.TrimSpace(s.Auth.Username) == "" {
		return fmt.Errorf("username or client ID is not set (run: rtsctl configure --username NAME)")
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL with a host
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("server URL %q must start with https://", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL %q has no host", raw)
	}
	return nil
}
