package rts

import "github.com/muurk/rtsctl/internal/jamfpro"

// SuccessTitle and SuccessMessage are reported for an accepted command
const (
	SuccessTitle   = "Return To Service"
	SuccessMessage = "The return to service command was successfully sent."
)

// Result is the outcome of a run, ready to be shown to the operator
type Result struct {
	Title   string
	Message string

	// Failure is nil on success
	Failure *Failure

	// RunID correlates the result with the log entries of the run
	RunID string

	// Values resolved before the run ended. Fields for stages that did not
	// complete are left at their zero value.
	ServerVersion jamfpro.ServerVersion
	Profile       *jamfpro.ConfigurationProfile
	DeviceID      int
	ManagementID  string
	StatusCode    int
}

// Succeeded reports whether the command was accepted
func (r Result) Succeeded() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}
