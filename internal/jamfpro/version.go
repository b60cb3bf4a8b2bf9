package jamfpro

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// Minimum server version supporting Return To Service, as major and minor.
const (
	MinimumMajor = 10
	MinimumMinor = 50
)

var (
	// ErrUnknownVersion is returned when a version string cannot be parsed
	ErrUnknownVersion = errors.New("unknown server version")

	// ErrUnsupportedVersion is returned by CheckVersion for servers older than 10.50
	ErrUnsupportedVersion = errors.New("server version is older than 10.50")
)

// ServerVersion is a Jamf Pro version reduced to major.minor
type ServerVersion struct {
	Raw   string
	Major int
	Minor int
}

// Float returns the version as major + minor/100 (10.50.0 → 10.5)
func (v ServerVersion) Float() float64 {
	return float64(v.Major) + float64(v.Minor)/100
}

// String returns the major.minor form with a two-digit minor
func (v ServerVersion) String() string {
	return fmt.Sprintf("%d.%02d", v.Major, v.Minor)
}

// Supported reports whether v is at least 10.50. The comparison is done on
// major*100+minor, which orders identically to Float without rounding.
func (v ServerVersion) Supported() bool {
	return v.Major*100+v.Minor >= MinimumMajor*100+MinimumMinor
}

// ParseServerVersion parses a dotted version string such as "10.51.0-t1693322284".
// At least three dot-separated components are required and only the first two
// are used. Unparsable numeric components are left at 0 and the result is
// reported as ErrUnknownVersion.
func ParseServerVersion(raw string) (ServerVersion, error) {
	v := ServerVersion{Raw: raw}

	parts := strings.Split(raw, ".")
	if len(parts) < 3 {
		return v, fmt.Errorf("%w: %q has fewer than three components", ErrUnknownVersion, raw)
	}

	major, majorErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	minor, minorErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if majorErr == nil {
		v.Major = major
	}
	if minorErr == nil {
		v.Minor = minor
	}
	if majorErr != nil || minorErr != nil {
		return v, fmt.Errorf("%w: %q has non-numeric major or minor", ErrUnknownVersion, raw)
	}

	return v, nil
}

// CheckVersion returns ErrUnsupportedVersion (wrapped with the version) when
// v is below the minimum.
func CheckVersion(v ServerVersion) error {
	if !v.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	return nil
}

// ServerVersion fetches and parses the Jamf Pro version
func (s *Session) ServerVersion(ctx context.Context) (ServerVersion, error) {
	var resp versionResponse
	if err := s.getJSON(ctx, PathVersion, &resp); err != nil {
		return ServerVersion{}, err
	}

	v, err := ParseServerVersion(resp.Version)
	if err != nil {
		return v, NewParseError(PathVersion, "could not parse Jamf Pro version", err)
	}

	logging.Info("Jamf Pro version", zap.String("raw", v.Raw), zap.Float64("version", v.Float()))
	return v, nil
}
