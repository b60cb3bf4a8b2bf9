package jamfpro

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/muurk/rtsctl/internal/jamfpro/jamfprotest"
)

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		raw       string
		major     int
		minor     int
		supported bool
		unknown   bool
	}{
		{raw: "10.51.0-t1693322284", major: 10, minor: 51, supported: true},
		{raw: "10.50.0", major: 10, minor: 50, supported: true},
		{raw: "10.49.3", major: 10, minor: 49, supported: false},
		{raw: "10.5.0", major: 10, minor: 5, supported: false},
		{raw: "11.0.1", major: 11, minor: 0, supported: true},
		{raw: "9.101.0", major: 9, minor: 101, supported: false},
		{raw: "10.50", unknown: true},
		{raw: "", unknown: true},
		{raw: "beta.50.0", major: 0, minor: 50, unknown: true},
		{raw: "10.x.0", major: 10, minor: 0, unknown: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := ParseServerVersion(tt.raw)

			if tt.unknown {
				if !errors.Is(err, ErrUnknownVersion) {
					t.Fatalf("ParseServerVersion(%q) error = %v, want ErrUnknownVersion", tt.raw, err)
				}
			} else if err != nil {
				t.Fatalf("ParseServerVersion(%q) error = %v", tt.raw, err)
			}

			if v.Major != tt.major || v.Minor != tt.minor {
				t.Errorf("ParseServerVersion(%q) = %d.%d, want %d.%d", tt.raw, v.Major, v.Minor, tt.major, tt.minor)
			}
			if !tt.unknown && v.Supported() != tt.supported {
				t.Errorf("Supported() = %v, want %v", v.Supported(), tt.supported)
			}
			if v.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", v.Raw, tt.raw)
			}
		})
	}
}

func TestServerVersionFloatAndString(t *testing.T) {
	v := ServerVersion{Major: 10, Minor: 50}
	if v.Float() != 10.5 {
		t.Errorf("Float() = %v, want 10.5", v.Float())
	}
	if v.String() != "10.50" {
		t.Errorf("String() = %s, want 10.50", v.String())
	}

	v = ServerVersion{Major: 10, Minor: 5}
	if v.String() != "10.05" {
		t.Errorf("String() = %s, want 10.05", v.String())
	}
}

func TestServerVersionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		major := rapid.IntRange(0, 99).Draw(t, "major")
		minor := rapid.IntRange(0, 99).Draw(t, "minor")
		patch := rapid.IntRange(0, 999).Draw(t, "patch")
		suffix := rapid.SampledFrom([]string{"", "-t1693322284", "-beta"}).Draw(t, "suffix")

		raw := fmt.Sprintf("%d.%d.%d%s", major, minor, patch, suffix)
		v, err := ParseServerVersion(raw)
		if err != nil {
			t.Fatalf("ParseServerVersion(%q) error = %v", raw, err)
		}
		if v.Major != major || v.Minor != minor {
			t.Fatalf("ParseServerVersion(%q) = %d.%d", raw, v.Major, v.Minor)
		}

		want := major > 10 || (major == 10 && minor >= 50)
		if v.Supported() != want {
			t.Fatalf("%s Supported() = %v, want %v", raw, v.Supported(), want)
		}
		if v.Supported() != (v.Float() >= 10.5-1e-9) {
			t.Fatalf("%s Supported() disagrees with Float() = %v", raw, v.Float())
		}
	})
}

func TestSessionServerVersion(t *testing.T) {
	srv := jamfprotest.NewServer()
	defer srv.Close()
	srv.Version = "10.49.3"

	s := newTestSession(t, srv)
	v, err := s.ServerVersion(context.Background())
	if err != nil {
		t.Fatalf("ServerVersion() error = %v", err)
	}
	if v.Supported() {
		t.Error("10.49.3 should not be supported")
	}
	if v.Raw != "10.49.3" {
		t.Errorf("Raw = %q", v.Raw)
	}
}

func TestSessionServerVersion_Unparsable(t *testing.T) {
	srv := jamfprotest.NewServer()
	defer srv.Close()
	srv.Version = "unknown"

	s := newTestSession(t, srv)
	_, err := s.ServerVersion(context.Background())
	if !IsParseError(err) {
		t.Fatalf("ServerVersion() error = %v, want parse error", err)
	}
	if !errors.Is(err, ErrUnknownVersion) {
		t.Error("error should wrap ErrUnknownVersion")
	}
}

func TestCheckVersion(t *testing.T) {
	if err := CheckVersion(ServerVersion{Major: 10, Minor: 50}); err != nil {
		t.Errorf("CheckVersion(10.50) = %v, want nil", err)
	}
	err := CheckVersion(ServerVersion{Major: 10, Minor: 49})
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("CheckVersion(10.49) = %v, want ErrUnsupportedVersion", err)
	}
}
