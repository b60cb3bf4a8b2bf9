package main

import (
	"path/filepath"
	"testing"

	"github.com/muurk/rtsctl/internal/config"
	"github.com/muurk/rtsctl/internal/jamfpro"
)

func TestResolveProfileRef(t *testing.T) {
	tests := []struct {
		name     string
		id       int
		profile  string
		lastID   int
		wantID   int
		wantName string
		wantErr  bool
	}{
		{name: "by id", id: 42, wantID: 42},
		{name: "by name", profile: "  Corp Wi-Fi ", wantName: "Corp Wi-Fi"},
		{name: "id wins over last", id: 7, lastID: 3, wantID: 7},
		{name: "falls back to last", lastID: 3, wantID: 3},
		{name: "both set", id: 1, profile: "Corp", wantErr: true},
		{name: "negative id", id: -1, wantErr: true},
		{name: "nothing", profile: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := resolveProfileRef(tt.id, tt.profile, tt.lastID)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			id, byID := ref.ID()
			name, byName := ref.Name()
			if tt.wantID != 0 && (!byID || id != tt.wantID) {
				t.Errorf("ref = %v, want ID %d", ref, tt.wantID)
			}
			if tt.wantName != "" && (!byName || name != tt.wantName) {
				t.Errorf("ref = %v, want name %q", ref, tt.wantName)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	serverURL = " https://example.jamfcloud.com/ "
	username = "api-client"
	useAPIRoles = true
	timeoutSecs = 90
	t.Cleanup(func() {
		serverURL, username, useAPIRoles, timeoutSecs = "", "", false, config.DefaultTimeoutSeconds
	})

	s := config.NewSettings()
	s.Auth.Username = "admin"
	applyOverrides(s, func(name string) bool { return name == "url" || name == "api-roles" })

	if s.Server.URL != "https://example.jamfcloud.com" {
		t.Errorf("URL = %q", s.Server.URL)
	}
	if !s.Auth.UseAPIRoles {
		t.Error("api-roles override not applied")
	}
	if s.Auth.Username != "admin" {
		t.Errorf("username changed without flag: %q", s.Auth.Username)
	}
	if s.Server.Timeout != config.DefaultTimeoutSeconds {
		t.Errorf("timeout changed without flag: %d", s.Server.Timeout)
	}
}

func TestRememberProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := config.NewSettings()
	s.Server.URL = "https://example.jamfcloud.com"

	rememberProfile(s, path, &jamfpro.ConfigurationProfile{ID: 12, Name: "Corp"})

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Preferences.LastProfileID != 12 {
		t.Errorf("LastProfileID = %d, want 12", loaded.Preferences.LastProfileID)
	}
	if loaded.Server.URL != s.Server.URL {
		t.Errorf("URL = %q, want %q", loaded.Server.URL, s.Server.URL)
	}
}

func TestRememberProfileIgnoresMissingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := config.NewSettings()

	rememberProfile(s, path, nil)

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Preferences.LastProfileID != 0 {
		t.Errorf("LastProfileID = %d, want 0", loaded.Preferences.LastProfileID)
	}
}

func TestAuthLabel(t *testing.T) {
	s := config.NewSettings()
	s.Auth.Username = "admin"
	if got := authLabel(s); got != "User admin" {
		t.Errorf("authLabel = %q", got)
	}
	s.Auth.UseAPIRoles = true
	if got := authLabel(s); got != "API client admin" {
		t.Errorf("authLabel = %q", got)
	}
}
