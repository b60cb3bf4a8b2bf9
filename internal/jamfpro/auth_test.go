package jamfpro

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/rtsctl/internal/jamfpro/jamfprotest"
	"github.com/muurk/rtsctl/internal/logging"
)

func TestCredentialsBasicToken(t *testing.T) {
	creds := Credentials{Identifier: "admin", Secret: "p@ss:word"}
	want := base64.StdEncoding.EncodeToString([]byte("admin:p@ss:word"))

	if got := creds.BasicToken(); got != want {
		t.Errorf("BasicToken() = %s, want %s", got, want)
	}
}

func TestAuthModeFor(t *testing.T) {
	if AuthModeFor(true) != AuthModeOAuth {
		t.Error("AuthModeFor(true) should be OAuth")
	}
	if AuthModeFor(false) != AuthModeBasic {
		t.Error("AuthModeFor(false) should be Basic")
	}
}

func TestAuthenticate_Basic(t *testing.T) {
	srv := jamfprotest.NewServer()
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	token, err := client.Authenticate(context.Background(), Credentials{Identifier: "admin", Secret: "secret"}, AuthModeBasic)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if token != "T1" {
		t.Errorf("token = %s, want T1", token)
	}
	if srv.Calls(PathBasicToken) != 1 {
		t.Errorf("basic token endpoint calls = %d, want 1", srv.Calls(PathBasicToken))
	}
	if srv.Calls(PathOAuthToken) != 0 {
		t.Error("OAuth endpoint should not be called in basic mode")
	}
}

func TestAuthenticate_OAuth(t *testing.T) {
	srv := jamfprotest.NewServer()
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	token, err := client.Authenticate(context.Background(), Credentials{Identifier: "client-id", Secret: "client-secret"}, AuthModeOAuth)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if token != "T1" {
		t.Errorf("token = %s, want T1", token)
	}

	form := srv.LastTokenForm()
	if form["grant_type"] != "client_credentials" {
		t.Errorf("grant_type = %q, want client_credentials", form["grant_type"])
	}
	if form["client_id"] != "client-id" || form["client_secret"] != "client-secret" {
		t.Errorf("form = %v, want client credentials", form)
	}
	if srv.Calls(PathBasicToken) != 0 {
		t.Error("basic endpoint should not be called in OAuth mode")
	}
}

func TestAuthenticate_OAuthSendsNoBasicHeader(t *testing.T) {
	var gotAuth, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"access_token":"abc","expires_in":60}`))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	if _, err := client.Authenticate(context.Background(), Credentials{Identifier: "id", Secret: "s&x=1"}, AuthModeOAuth); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Authorization header should be empty in OAuth mode, got %q", gotAuth)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotType)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		mode  AuthMode
		creds Credentials
		body  string
	}{
		{name: "wrong password", mode: AuthModeBasic, creds: Credentials{Identifier: "admin", Secret: "nope"}},
		{name: "wrong client secret", mode: AuthModeOAuth, creds: Credentials{Identifier: "client-id", Secret: "nope"}},
		{name: "basic body without token", mode: AuthModeBasic, creds: Credentials{Identifier: "admin", Secret: "secret"}, body: `{"expires":"x"}`},
		{name: "basic body not JSON", mode: AuthModeBasic, creds: Credentials{Identifier: "admin", Secret: "secret"}, body: `<html>`},
		// A basic-shaped body must not satisfy OAuth decoding.
		{name: "oauth body has basic shape", mode: AuthModeOAuth, creds: Credentials{Identifier: "client-id", Secret: "client-secret"}, body: `{"token":"T1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jamfprotest.NewServer()
			defer srv.Close()
			if tt.body != "" {
				srv.BodyOverrides[PathBasicToken] = tt.body
				srv.BodyOverrides[PathOAuthToken] = tt.body
			}

			client, _ := NewClient(srv.URL)
			token, err := client.Authenticate(context.Background(), tt.creds, tt.mode)
			if err == nil {
				t.Fatalf("Authenticate() should fail, got token %q", token)
			}
			if !IsAuthError(err) {
				t.Errorf("Authenticate() error should be auth error, got %v", err)
			}
		})
	}
}

func TestAuthenticate_UnknownMode(t *testing.T) {
	client, _ := NewClient("https://example.jamfcloud.com")
	if _, err := client.Authenticate(context.Background(), Credentials{}, AuthMode(7)); !IsValidationError(err) {
		t.Errorf("Authenticate() with unknown mode should be validation error, got %v", err)
	}
}

func TestAuthenticate_TokenNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(zap.NewNop()) })

	srv := jamfprotest.NewServer()
	defer srv.Close()
	srv.Token = "very-secret-token"

	client, _ := NewClient(srv.URL)
	for _, mode := range []AuthMode{AuthModeBasic, AuthModeOAuth} {
		creds := Credentials{Identifier: "admin", Secret: "secret"}
		if mode == AuthModeOAuth {
			creds = Credentials{Identifier: srv.ClientID, Secret: srv.ClientSecret}
		}
		if _, err := client.Authenticate(context.Background(), creds, mode); err != nil {
			t.Fatalf("Authenticate(%s) error = %v", mode, err)
		}
	}

	if len(logs.All()) == 0 {
		t.Fatal("expected request logs")
	}
	for _, entry := range logs.All() {
		for _, v := range entry.ContextMap() {
			if s, ok := v.(string); ok && strings.Contains(s, srv.Token) {
				t.Errorf("token logged in %q: %s", entry.Message, s)
			}
		}
	}
}
