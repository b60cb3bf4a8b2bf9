package rts

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/logging"
)

// Request holds the inputs of one run
type Request struct {
	Credentials jamfpro.Credentials
	AuthMode    jamfpro.AuthMode
	Serial      string
	Profile     ProfileRef
}

// Runner executes runs against one Jamf Pro server
type Runner struct {
	client   *jamfpro.Client
	observer Observer
	selector Selector
	onScan   jamfpro.ScanProgressFunc
}

// Option configures a Runner
type Option func(*Runner)

// WithObserver sets the observer notified of busy state and stage transitions
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithSelector sets how a by-name reference picks among scan candidates.
// The default is NameSelector.
func WithSelector(s Selector) Option {
	return func(r *Runner) {
		if s != nil {
			r.selector = s
		}
	}
}

// WithScanProgress sets a callback invoked for every catalog entry checked
// during a Wi-Fi profile scan.
func WithScanProgress(fn jamfpro.ScanProgressFunc) Option {
	return func(r *Runner) {
		r.onScan = fn
	}
}

// NewRunner creates a runner using client for every request
func NewRunner(client *jamfpro.Client, opts ...Option) *Runner {
	r := &Runner{
		client:   client,
		observer: nopObserver{},
		selector: NameSelector,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// runState is shared by the stages of one run
type runState struct {
	req          Request
	session      *jamfpro.Session
	version      jamfpro.ServerVersion
	profile      *jamfpro.ConfigurationProfile
	scan         *jamfpro.WiFiScan
	deviceID     int
	managementID string
	status       int
}

type stageFunc func(ctx context.Context, st *runState) *Failure

type step struct {
	stage Stage
	exec  stageFunc
}

// execute runs steps in order and stops at the first failure
func (r *Runner) execute(ctx context.Context, st *runState, steps []step) *Failure {
	r.observer.Busy(true)
	defer r.observer.Busy(false)

	for _, s := range steps {
		r.observer.StageStarted(s.stage)
		if f := s.exec(ctx, st); f != nil {
			f.Stage = s.stage
			r.observer.StageFinished(s.stage, f)
			return f
		}
		r.observer.StageFinished(s.stage, nil)
	}
	return nil
}

// Run authenticates, checks the server version, resolves the Wi-Fi profile,
// the device and its management ID, then sends the Return To Service command.
// Run never panics on server responses; every outcome is described by the
// returned Result.
func (r *Runner) Run(ctx context.Context, req Request) Result {
	runID := uuid.NewString()
	logging.Info("Starting return to service run",
		zap.String("run_id", runID),
		zap.String("server", r.client.BaseURL),
		zap.Stringer("auth_mode", req.AuthMode),
		zap.String("serial", req.Serial),
		zap.Stringer("profile", req.Profile),
	)

	st := &runState{req: req}
	failure := r.execute(ctx, st, []step{
		{StageAuthenticating, r.authenticate},
		{StageCheckingVersion, r.checkVersion},
		{StageResolvingProfile, r.resolveProfile},
		{StageResolvingDevice, r.resolveDevice},
		{StageResolvingManagementID, r.resolveManagementID},
		{StageDispatching, r.dispatch},
	})

	result := Result{
		RunID:         runID,
		ServerVersion: st.version,
		Profile:       st.profile,
		DeviceID:      st.deviceID,
		ManagementID:  st.managementID,
		StatusCode:    st.status,
	}
	if failure != nil {
		result.Title = failure.Title()
		result.Message = failure.Message()
		result.Failure = failure
		logging.Warn("Return to service run failed",
			zap.String("run_id", runID),
			zap.Stringer("stage", failure.Stage),
			zap.Stringer("kind", failure.Kind),
			zap.Error(failure.Err),
		)
		return result
	}

	result.Title = SuccessTitle
	result.Message = SuccessMessage
	logging.Info("Return to service run succeeded",
		zap.String("run_id", runID),
		zap.String("management_id", st.managementID),
	)
	return result
}

// FindWiFiProfiles authenticates and scans the catalog for Wi-Fi profiles.
// The returned error is a *Failure (AuthenticationFailure, NoWiFiProfiles or
// ProfileNotFound when the catalog itself could not be listed).
func (r *Runner) FindWiFiProfiles(ctx context.Context, creds jamfpro.Credentials, mode jamfpro.AuthMode) (*jamfpro.WiFiScan, error) {
	st := &runState{req: Request{Credentials: creds, AuthMode: mode}}
	failure := r.execute(ctx, st, []step{
		{StageAuthenticating, r.authenticate},
		{StageResolvingProfile, r.scanProfiles},
	})
	if failure != nil {
		return st.scan, failure
	}
	return st.scan, nil
}

func (r *Runner) authenticate(ctx context.Context, st *runState) *Failure {
	token, err := r.client.Authenticate(ctx, st.req.Credentials, st.req.AuthMode)
	if err != nil {
		return newFailure(AuthenticationFailure, err)
	}
	st.session = r.client.Session(token)
	return nil
}

func (r *Runner) checkVersion(ctx context.Context, st *runState) *Failure {
	v, err := st.session.ServerVersion(ctx)
	st.version = v
	if err != nil {
		return newFailure(VersionUnknown, err)
	}
	if err := jamfpro.CheckVersion(v); err != nil {
		return newFailure(VersionUnsupported, err)
	}
	return nil
}

func (r *Runner) scanProfiles(ctx context.Context, st *runState) *Failure {
	scan, err := st.session.FindWiFiProfiles(ctx, r.onScan)
	st.scan = scan
	if err != nil {
		return newFailure(ProfileNotFound, err)
	}
	if !scan.Found() {
		return newFailure(NoWiFiProfiles, nil)
	}
	return nil
}

func (r *Runner) resolveProfile(ctx context.Context, st *runState) *Failure {
	ref := st.req.Profile
	if ref.IsZero() {
		return newFailure(ProfileNotFound, jamfpro.NewValidationError("no Wi-Fi profile given"))
	}

	if id, ok := ref.ID(); ok {
		profile, err := st.session.ConfigurationProfile(ctx, id)
		if err != nil {
			return newFailure(ProfileNotFound, err)
		}
		st.profile = profile
	} else {
		if f := r.scanProfiles(ctx, st); f != nil {
			return f
		}
		name, _ := ref.Name()
		profile, ok := r.selector.Select(name, st.scan.Candidates)
		if !ok || profile == nil {
			return newFailure(ProfileNotFound, nil)
		}
		st.profile = profile
	}

	// Selected or fetched, the payload must carry the Wi-Fi marker.
	if !st.profile.IsWiFi() {
		return newFailure(ProfileInvalidPayload, nil)
	}

	logging.Info("Wi-Fi profile resolved", zap.Int("id", st.profile.ID), zap.String("name", st.profile.Name))
	return nil
}

func (r *Runner) resolveDevice(ctx context.Context, st *runState) *Failure {
	id, err := st.session.MobileDeviceID(ctx, st.req.Serial)
	if err != nil {
		return newFailure(DeviceNotFound, err)
	}
	st.deviceID = id
	return nil
}

func (r *Runner) resolveManagementID(ctx context.Context, st *runState) *Failure {
	mgmtID, err := st.session.ManagementID(ctx, st.deviceID)
	if err != nil {
		return newFailure(ManagementIDNotFound, err)
	}
	st.managementID = mgmtID
	return nil
}

func (r *Runner) dispatch(ctx context.Context, st *runState) *Failure {
	status, err := st.session.SendReturnToService(ctx, st.managementID, st.profile.Payload)
	st.status = status
	if err != nil {
		return &Failure{Kind: CommandRejected, Err: err}
	}
	if status != http.StatusCreated {
		return &Failure{Kind: CommandRejected, StatusCode: status}
	}
	return nil
}
