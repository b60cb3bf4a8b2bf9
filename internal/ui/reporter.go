package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/rts"
	"github.com/muurk/rtsctl/internal/urls"
)

// clearLine erases a running line drawn with a trailing carriage return
const clearLine = "\x1b[2K"

// StageReporter prints one progress line per stage of a run.
// It implements rts.Observer.
type StageReporter struct {
	mu       sync.Mutex
	out      io.Writer
	progress *Progress
	index    map[rts.Stage]int
	started  time.Time
	elapsed  time.Duration
}

// NewStageReporter creates a reporter for the given stages (see rts.RunStages).
// If w is nil, os.Stdout is used.
func NewStageReporter(w io.Writer, stages []rts.Stage) *StageReporter {
	if w == nil {
		w = os.Stdout
	}

	index := make(map[rts.Stage]int, len(stages))
	names := make([]string, len(stages))
	for i, s := range stages {
		index[s] = i + 1
		names[i] = s.Label()
	}

	return &StageReporter{out: w, progress: NewProgress(names), index: index}
}

// Busy records the start and end of a run
func (r *StageReporter) Busy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if busy {
		r.started = time.Now()
		return
	}
	r.elapsed = time.Since(r.started)
}

// StageStarted prints the running line for stage, to be overwritten when it finishes
func (r *StageReporter) StageStarted(stage rts.Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.index[stage]
	if !ok {
		return
	}
	r.progress.Set(n, StepRunning, "")
	_, _ = fmt.Fprint(r.out, r.progress.RenderStep(n)+"\r")
}

// StageFinished prints the final line for stage
func (r *StageReporter) StageFinished(stage rts.Stage, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.index[stage]
	if !ok {
		return
	}
	status, message := StepComplete, r.progress.Steps[n-1].Message
	if err != nil {
		status = StepFailed
		if f, ok := rts.AsFailure(err); ok {
			message = f.Kind.String()
		}
	}
	r.progress.Set(n, status, message)
	_, _ = fmt.Fprintln(r.out, clearLine+r.progress.RenderStep(n))
}

// ScanProgress draws the catalog scan as a bar on the profile stage line.
// It has the signature of jamfpro.ScanProgressFunc.
func (r *StageReporter) ScanProgress(done, total int, _ jamfpro.ProfileSummary, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.index[rts.StageResolvingProfile]
	if !ok {
		return
	}
	fraction := 0.0
	if total > 0 {
		fraction = float64(done) / float64(total)
	}
	r.progress.Set(n, StepRunning, fmt.Sprintf("%d of %d profiles", done, total))
	_, _ = fmt.Fprint(r.out, r.progress.RenderFraction(n, fraction)+"\r")
}

// Elapsed returns the duration of the last completed run
func (r *StageReporter) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// NewRunResult builds the result box for a finished run
func NewRunResult(result rts.Result, elapsed time.Duration) *Result {
	var box *Result
	if result.Succeeded() {
		box = NewSuccessResult(result.Title)
	} else {
		box = NewFailureResult(result.Title, result.Failure.Err, RunTroubleshooting(result.Failure))
	}
	box.SetMessage(result.Message)

	if result.Profile != nil {
		box.AddDetail("Wi-Fi profile", fmt.Sprintf("%s (ID %d)", result.Profile.Name, result.Profile.ID))
	}
	if result.DeviceID != 0 {
		box.AddDetail("Device ID", strconv.Itoa(result.DeviceID))
	}
	if result.ManagementID != "" {
		box.AddDetail("Management ID", result.ManagementID)
	}
	switch {
	case result.StatusCode != 0:
		box.AddDetail("HTTP status", strconv.Itoa(result.StatusCode))
	case !result.Succeeded() && jamfpro.StatusCode(result.Failure.Err) != 0:
		box.AddDetail("HTTP status", strconv.Itoa(jamfpro.StatusCode(result.Failure.Err)))
	}
	if !result.Succeeded() {
		box.AddDetail("Failed at", result.Failure.Stage.Label())
	}
	if elapsed > 0 {
		box.AddDetail("Duration", elapsed.Round(time.Millisecond).String())
	}
	if result.RunID != "" {
		box.AddDetail("Run ID", result.RunID)
	}
	return box
}

// RunTroubleshooting returns tips for a failed run. Kind-specific advice
// comes first, followed by hints derived from the underlying API error.
func RunTroubleshooting(f *rts.Failure) []string {
	if f == nil {
		return nil
	}

	var tips []string
	switch f.Kind {
	case rts.VersionUnsupported:
		tips = append(tips,
			"Return To Service requires Jamf Pro 10.50 or later",
			"See "+urls.ReturnToService,
		)
	case rts.NoWiFiProfiles:
		tips = append(tips,
			"Create a mobile device configuration profile with a Wi-Fi payload",
			"The account needs Read access to Mobile Device Configuration Profiles",
		)
	case rts.ProfileNotFound:
		tips = append(tips, "List the available Wi-Fi profiles with: rtsctl profiles")
	case rts.ProfileInvalidPayload:
		tips = append(tips, "Choose a profile that contains a Wi-Fi payload (rtsctl profiles)")
	case rts.DeviceNotFound:
		tips = append(tips, "Check the serial number; it must belong to a mobile device")
	case rts.ManagementIDNotFound:
		tips = append(tips, "The device may not be enrolled or may still be pending MDM enrollment")
	case rts.CommandRejected:
		tips = append(tips,
			"The account needs the Send Mobile Device Remote Wipe Command privilege",
			"See "+urls.ClassicAPIPrivileges,
		)
	}

	return append(tips, jamfpro.TroubleshootingHint(f.Err)...)
}

// PrintRunResult prints the result box for a finished run
func (p *Printer) PrintRunResult(result rts.Result, elapsed time.Duration) {
	p.Print(NewRunResult(result, elapsed).SetWidth(p.width).Render())
	p.Newline()
}
