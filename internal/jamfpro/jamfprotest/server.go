// Package jamfprotest provides an in-memory Jamf Pro server for tests.
//
// The server implements the endpoints used by package jamfpro, enforces
// bearer authentication, and counts requests per path so tests can assert
// which stages of a run reached the network.
package jamfprotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Profile is a configuration profile served by the fake
type Profile struct {
	ID      int
	Name    string
	Payload string
}

// Device is a mobile device served by the fake
type Device struct {
	ID           int
	ManagementID string
}

// Server is a fake Jamf Pro server
type Server struct {
	*httptest.Server

	// Basic auth account
	Username string
	Password string

	// OAuth API client
	ClientID     string
	ClientSecret string

	// Token issued by both token endpoints
	Token string

	// Version reported by /api/v1/jamf-pro-version
	Version string

	// Profiles in catalog order
	Profiles []Profile

	// Devices keyed by serial number
	Devices map[string]Device

	// CommandStatus is returned by the commands endpoint (default 201)
	CommandStatus int

	// StatusOverrides forces a status code (and empty body) for a path
	StatusOverrides map[string]int

	// BodyOverrides replaces the response body for a path
	BodyOverrides map[string]string

	mu          sync.Mutex
	calls       map[string]int
	lastCommand []byte
	lastForm    map[string]string
}

// NewServer starts a fake server with one account, one API client and token "T1"
func NewServer() *Server {
	s := &Server{
		Username:        "admin",
		Password:        "secret",
		ClientID:        "client-id",
		ClientSecret:    "client-secret",
		Token:           "T1",
		Version:         "10.51.0-t1693322284",
		Devices:         make(map[string]Device),
		CommandStatus:   http.StatusCreated,
		StatusOverrides: make(map[string]int),
		BodyOverrides:   make(map[string]string),
		calls:           make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Calls returns how many requests were made to path
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// CallsWithPrefix returns how many requests were made to paths starting with prefix
func (s *Server) CallsWithPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for path, count := range s.calls {
		if strings.HasPrefix(path, prefix) {
			n += count
		}
	}
	return n
}

// TotalCalls returns the number of requests served
func (s *Server) TotalCalls() int {
	return s.CallsWithPrefix("/")
}

// LastCommand returns the body of the last command submission
func (s *Server) LastCommand() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommand
}

// LastTokenForm returns the form fields of the last OAuth token request
func (s *Server) LastTokenForm() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForm
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	s.mu.Lock()
	s.calls[path]++
	status, forced := s.StatusOverrides[path]
	body, replaced := s.BodyOverrides[path]
	s.mu.Unlock()

	if forced {
		w.WriteHeader(status)
		return
	}

	switch {
	case path == "/api/v1/auth/token" && r.Method == http.MethodPost:
		s.handleBasicToken(w, r, body, replaced)
		return
	case path == "/api/oauth/token" && r.Method == http.MethodPost:
		s.handleOAuthToken(w, r, body, replaced)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+s.Token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if replaced {
		writeRaw(w, http.StatusOK, body)
		return
	}

	switch {
	case path == "/api/v1/jamf-pro-version" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"version": s.Version})

	case path == "/JSSResource/mobiledeviceconfigurationprofiles" && r.Method == http.MethodGet:
		list := make([]map[string]interface{}, 0, len(s.Profiles))
		for _, p := range s.Profiles {
			list = append(list, map[string]interface{}{"id": p.ID, "name": p.Name})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"configuration_profiles": list})

	case strings.HasPrefix(path, "/JSSResource/mobiledeviceconfigurationprofiles/id/") && r.Method == http.MethodGet:
		id, err := strconv.Atoi(strings.TrimPrefix(path, "/JSSResource/mobiledeviceconfigurationprofiles/id/"))
		if err != nil {
			writeNotFound(w)
			return
		}
		for _, p := range s.Profiles {
			if p.ID == id {
				writeJSON(w, http.StatusOK, map[string]interface{}{
					"configuration_profile": map[string]interface{}{
						"general": map[string]interface{}{"id": p.ID, "name": p.Name, "payloads": p.Payload},
					},
				})
				return
			}
		}
		writeNotFound(w)

	case strings.HasPrefix(path, "/JSSResource/mobiledevices/serialnumber/") && r.Method == http.MethodGet:
		serial := strings.TrimPrefix(path, "/JSSResource/mobiledevices/serialnumber/")
		d, ok := s.Devices[serial]
		if !ok {
			writeNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"mobile_device": map[string]interface{}{"general": map[string]interface{}{"id": d.ID, "serial_number": serial}},
		})

	case strings.HasPrefix(path, "/api/v2/mobile-devices/") && r.Method == http.MethodGet:
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/api/v2/mobile-devices/"))
		for serial, d := range s.Devices {
			if d.ID == id {
				writeJSON(w, http.StatusOK, map[string]string{
					"id":           strconv.Itoa(d.ID),
					"serialNumber": serial,
					"managementId": d.ManagementID,
				})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"httpStatus": 404, "errors": []interface{}{}})

	case path == "/api/preview/mdm/commands" && r.Method == http.MethodPost:
		data, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.lastCommand = data
		s.mu.Unlock()
		if s.CommandStatus == http.StatusCreated {
			writeJSON(w, http.StatusCreated, []map[string]string{{"id": "cmd-1", "href": "/api/preview/mdm/commands/cmd-1"}})
			return
		}
		writeJSON(w, s.CommandStatus, map[string]interface{}{"httpStatus": s.CommandStatus})

	default:
		writeNotFound(w)
	}
}

func (s *Server) handleBasicToken(w http.ResponseWriter, r *http.Request, body string, replaced bool) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != s.Username || pass != s.Password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if replaced {
		writeRaw(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.Token, "expires": "2030-01-01T00:00:00.000Z"})
}

func (s *Server) handleOAuthToken(w http.ResponseWriter, r *http.Request, body string, replaced bool) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	form := map[string]string{
		"client_id":     r.PostForm.Get("client_id"),
		"client_secret": r.PostForm.Get("client_secret"),
		"grant_type":    r.PostForm.Get("grant_type"),
	}
	s.mu.Lock()
	s.lastForm = form
	s.mu.Unlock()

	if form["grant_type"] != "client_credentials" || form["client_id"] != s.ClientID || form["client_secret"] != s.ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}
	if replaced {
		writeRaw(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": s.Token,
		"scope":        "api-role:1",
		"token_type":   "Bearer",
		"expires_in":   1799,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

// writeNotFound mimics the Classic API, which answers 404 with an HTML page
func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprint(w, "<html><body><p>The server has not found anything matching the request URI</p></body></html>")
}
