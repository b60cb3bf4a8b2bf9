package rts

import (
	"errors"
	"fmt"
)

// FailureKind is the category of a failed run
type FailureKind int

const (
	// AuthenticationFailure means no token could be obtained
	AuthenticationFailure FailureKind = iota + 1
	// VersionUnknown means the server version could not be fetched or parsed
	VersionUnknown
	// VersionUnsupported means the server is older than 10.50
	VersionUnsupported
	// NoWiFiProfiles means a catalog scan found no Wi-Fi profile
	NoWiFiProfiles
	// ProfileNotFound means the referenced profile could not be resolved
	ProfileNotFound
	// ProfileInvalidPayload means the resolved profile has no Wi-Fi payload
	ProfileInvalidPayload
	// DeviceNotFound means no device matches the serial number
	DeviceNotFound
	// ManagementIDNotFound means the device has no usable management ID
	ManagementIDNotFound
	// CommandRejected means the command endpoint did not answer 201
	CommandRejected
)

// String returns the kind name
func (k FailureKind) String() string {
	switch k {
	case AuthenticationFailure:
		return "AuthenticationFailure"
	case VersionUnknown:
		return "VersionUnknown"
	case VersionUnsupported:
		return "VersionUnsupported"
	case NoWiFiProfiles:
		return "NoWiFiProfiles"
	case ProfileNotFound:
		return "ProfileNotFound"
	case ProfileInvalidPayload:
		return "ProfileInvalidPayload"
	case DeviceNotFound:
		return "DeviceNotFound"
	case ManagementIDNotFound:
		return "ManagementIDNotFound"
	case CommandRejected:
		return "CommandRejected"
	default:
		return fmt.Sprintf("FailureKind(%d)", k)
	}
}

// Failure describes why a run stopped. It wraps the underlying jamfpro
// error when there is one.
type Failure struct {
	Kind       FailureKind
	Stage      Stage
	StatusCode int   // command endpoint status for CommandRejected (0 if none was received)
	Err        error // underlying cause, may be nil
}

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// Title returns the heading shown with the failure
func (f *Failure) Title() string {
	switch f.Kind {
	case AuthenticationFailure:
		return "Authentication Error"
	case NoWiFiProfiles, ProfileNotFound, ProfileInvalidPayload:
		return "Wi-Fi Mobile Config Profile"
	case CommandRejected:
		return "Return To Service"
	default:
		return "Error"
	}
}

// Message returns the fixed operator-facing text for the failure.
// Server response bodies are never included.
func (f *Failure) Message() string {
	switch f.Kind {
	case AuthenticationFailure:
		return "Could not authenticate. Please check the url and authentication details"
	case VersionUnknown:
		return "Could not fetch Jamf Pro Version"
	case VersionUnsupported:
		return "Jamf Pro version 10.50 or higher is required"
	case NoWiFiProfiles:
		return "No Wi-Fi profiles found"
	case ProfileNotFound:
		return "Could not locate the Wi-Fi mobile config. Please verify the ID or name."
	case ProfileInvalidPayload:
		return "The selected profile does not contain a Wi-Fi payload"
	case DeviceNotFound:
		return "Could not find a mobile device with that serial number"
	case ManagementIDNotFound:
		return "Could not find the management ID of the mobile device"
	case CommandRejected:
		return fmt.Sprintf("The return to service command failed with error %d", f.StatusCode)
	default:
		return "The return to service command could not be sent"
	}
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Message(), f.Err)
	}
	return f.Message()
}

// Unwrap returns the underlying cause
func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a *Failure of the given kind
func IsKind(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
