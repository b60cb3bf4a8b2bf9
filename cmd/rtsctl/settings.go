package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/rtsctl/internal/config"
	"github.com/muurk/rtsctl/internal/credentials"
	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/rts"
)

// Connection flags (persistent on root)
var (
	configPath  string
	serverURL   string
	username    string
	useAPIRoles bool
	timeoutSecs int
	logLevel    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "Jamf Pro server URL")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "Jamf Pro username, or API client ID with --api-roles")
	rootCmd.PersistentFlags().BoolVar(&useAPIRoles, "api-roles", false, "Authenticate as an API client (OAuth client credentials)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", config.DefaultTimeoutSeconds, "Request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $RTS_LOG_LEVEL")
}

// settingsPath returns --config or the default settings file path
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// loadSettings reads the settings file and applies connection flags set on cmd
func loadSettings(cmd *cobra.Command) (*config.Settings, string, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, "", err
	}
	settings, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	applyOverrides(settings, cmd.Flags().Changed)
	return settings, path, nil
}

// applyOverrides copies the connection flags reported as changed into settings
func applyOverrides(s *config.Settings, changed func(name string) bool) {
	if changed("url") {
		s.Server.URL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	}
	if changed("timeout") {
		s.Server.Timeout = timeoutSecs
	}
	if changed("username") {
		s.Auth.Username = strings.TrimSpace(username)
	}
	if changed("api-roles") {
		s.Auth.UseAPIRoles = useAPIRoles
	}
}

// newClient creates a Jamf Pro client for the configured server
func newClient(s *config.Settings) (*jamfpro.Client, error) {
	client, err := jamfpro.NewClient(s.Server.URL)
	if err != nil {
		return nil, err
	}
	client.SetTimeout(s.TimeoutDuration())
	return client, nil
}

// readCredentials pairs the configured identifier with a secret from the
// environment or a terminal prompt.
func readCredentials(ctx context.Context, s *config.Settings) (jamfpro.Credentials, error) {
	secret, err := credentials.Default(s.Auth.UseAPIRoles).Secret(ctx, s.Auth.Username)
	if err != nil {
		return jamfpro.Credentials{}, fmt.Errorf("failed to read secret for %s: %w", s.Auth.Username, err)
	}
	return jamfpro.Credentials{Identifier: s.Auth.Username, Secret: secret}, nil
}

// resolveProfileRef turns the profile flags into a reference. With neither
// flag set, the profile of the last successful run is used.
func resolveProfileRef(id int, name string, lastID int) (rts.ProfileRef, error) {
	name = strings.TrimSpace(name)
	switch {
	case id != 0 && name != "":
		return rts.ProfileRef{}, fmt.Errorf("--profile-id and --profile-name cannot be used together")
	case id < 0:
		return rts.ProfileRef{}, fmt.Errorf("invalid profile ID %d", id)
	case id > 0:
		return rts.ProfileByID(id), nil
	case name != "":
		return rts.ProfileByName(name), nil
	case lastID > 0:
		return rts.ProfileByID(lastID), nil
	}
	return rts.ProfileRef{}, fmt.Errorf("no Wi-Fi profile given: use --profile-id or --profile-name, or run 'rtsctl' to pick one")
}

// authLabel describes the authentication mode for command headers
func authLabel(s *config.Settings) string {
	if s.Auth.UseAPIRoles {
		return "API client " + s.Auth.Username
	}
	return "User " + s.Auth.Username
}
