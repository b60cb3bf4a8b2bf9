package rts

import "fmt"

// Stage is a state of a run
type Stage int

const (
	StageIdle Stage = iota
	StageAuthenticating
	StageCheckingVersion
	StageResolvingProfile
	StageResolvingDevice
	StageResolvingManagementID
	StageDispatching
	StageSucceeded
	StageFailed
)

// String returns the state name
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageAuthenticating:
		return "Authenticating"
	case StageCheckingVersion:
		return "CheckingVersion"
	case StageResolvingProfile:
		return "ResolvingProfile"
	case StageResolvingDevice:
		return "ResolvingDevice"
	case StageResolvingManagementID:
		return "ResolvingManagementID"
	case StageDispatching:
		return "Dispatching"
	case StageSucceeded:
		return "Succeeded"
	case StageFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// Label returns a short operator-facing description of the stage
func (s Stage) Label() string {
	switch s {
	case StageAuthenticating:
		return "Authenticate"
	case StageCheckingVersion:
		return "Check Jamf Pro version"
	case StageResolvingProfile:
		return "Resolve Wi-Fi profile"
	case StageResolvingDevice:
		return "Look up device"
	case StageResolvingManagementID:
		return "Look up management ID"
	case StageDispatching:
		return "Send Return To Service"
	default:
		return s.String()
	}
}

// Terminal reports whether s ends a run
func (s Stage) Terminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// RunStages lists the stages executed by Run, in order
func RunStages() []Stage {
	return []Stage{
		StageAuthenticating,
		StageCheckingVersion,
		StageResolvingProfile,
		StageResolvingDevice,
		StageResolvingManagementID,
		StageDispatching,
	}
}

// ScanStages lists the stages executed by FindWiFiProfiles, in order
func ScanStages() []Stage {
	return []Stage{StageAuthenticating, StageResolvingProfile}
}
