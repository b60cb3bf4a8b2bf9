package rts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/jamfpro/jamfprotest"
)

const corpWiFi = `<?xml version="1.0"?><plist><dict><key>PayloadType</key><string>com.apple.wifi.managed</string><key>SSID_STR</key><string>Corp</string></dict></plist>`

// recorder is an Observer that records every notification
type recorder struct {
	events []string
	busy   []bool
}

func (r *recorder) Busy(busy bool) {
	r.busy = append(r.busy, busy)
}

func (r *recorder) StageStarted(stage Stage) {
	r.events = append(r.events, "start "+stage.String())
}

func (r *recorder) StageFinished(stage Stage, err error) {
	if err != nil {
		r.events = append(r.events, "fail "+stage.String())
		return
	}
	r.events = append(r.events, "done "+stage.String())
}

func newFixture(t *testing.T) *jamfprotest.Server {
	t.Helper()
	srv := jamfprotest.NewServer()
	t.Cleanup(srv.Close)
	srv.Profiles = []jamfprotest.Profile{
		{ID: 3, Name: "Restrictions", Payload: "com.apple.applicationaccess"},
		{ID: 7, Name: "CorpWiFi", Payload: corpWiFi},
	}
	srv.Devices["SN123"] = jamfprotest.Device{ID: 55, ManagementID: "mgmt-9"}
	return srv
}

func newTestRunner(t *testing.T, srv *jamfprotest.Server, opts ...Option) *Runner {
	t.Helper()
	client, err := jamfpro.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return NewRunner(client, opts...)
}

func basicRequest(profile ProfileRef) Request {
	return Request{
		Credentials: jamfpro.Credentials{Identifier: "admin", Secret: "secret"},
		AuthMode:    jamfpro.AuthModeBasic,
		Serial:      "SN123",
		Profile:     profile,
	}
}

func TestRun_Success(t *testing.T) {
	srv := newFixture(t)
	rec := &recorder{}
	runner := newTestRunner(t, srv, WithObserver(rec))

	result := runner.Run(context.Background(), basicRequest(ProfileByID(7)))

	if !result.Succeeded() {
		t.Fatalf("Run() failed: %v", result.Failure)
	}
	if result.Title != "Return To Service" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Message != "The return to service command was successfully sent." {
		t.Errorf("Message = %q", result.Message)
	}
	if result.DeviceID != 55 || result.ManagementID != "mgmt-9" || result.StatusCode != 201 {
		t.Errorf("Result = %+v", result)
	}
	if result.ServerVersion.String() != "10.51" {
		t.Errorf("ServerVersion = %s, want 10.51", result.ServerVersion)
	}

	var cmd jamfpro.ReturnToServiceCommand
	if err := json.Unmarshal(srv.LastCommand(), &cmd); err != nil {
		t.Fatalf("command body is not JSON: %v", err)
	}
	if cmd.ClientData[0].ManagementID != "mgmt-9" {
		t.Errorf("managementId = %s, want mgmt-9", cmd.ClientData[0].ManagementID)
	}
	if cmd.CommandData.ReturnToService.WiFiProfileData != base64.StdEncoding.EncodeToString([]byte(corpWiFi)) {
		t.Error("wifiProfileData is not the base64 of the profile payload")
	}

	want := []string{
		"start Authenticating", "done Authenticating",
		"start CheckingVersion", "done CheckingVersion",
		"start ResolvingProfile", "done ResolvingProfile",
		"start ResolvingDevice", "done ResolvingDevice",
		"start ResolvingManagementID", "done ResolvingManagementID",
		"start Dispatching", "done Dispatching",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if !reflect.DeepEqual(rec.busy, []bool{true, false}) {
		t.Errorf("busy = %v, want [true false]", rec.busy)
	}

	// by ID never lists the catalog
	if srv.Calls(jamfpro.PathConfigurationProfiles) != 0 {
		t.Error("catalog should not be listed for a by-ID reference")
	}
}

func TestRun_ByName(t *testing.T) {
	srv := newFixture(t)

	var progress []int
	runner := newTestRunner(t, srv, WithScanProgress(func(done, total int, entry jamfpro.ProfileSummary, matched bool) {
		progress = append(progress, done)
	}))

	result := runner.Run(context.Background(), basicRequest(ProfileByName("corpwifi")))
	if !result.Succeeded() {
		t.Fatalf("Run() failed: %v", result.Failure)
	}
	if result.Profile.ID != 7 {
		t.Errorf("Profile.ID = %d, want 7", result.Profile.ID)
	}
	if len(progress) != 2 {
		t.Errorf("progress = %v, want two entries", progress)
	}
	// the scan payload is reused, not fetched again
	if n := srv.Calls(jamfpro.PathConfigurationProfiles + "/id/7"); n != 1 {
		t.Errorf("detail calls for profile 7 = %d, want 1", n)
	}
}

func TestRun_ByNameFailures(t *testing.T) {
	tests := []struct {
		name     string
		profiles []jamfprotest.Profile
		ref      ProfileRef
		want     FailureKind
	}{
		{
			name:     "no wifi profiles",
			profiles: []jamfprotest.Profile{{ID: 1, Name: "Wi-Fi", Payload: "com.apple.vpn.managed"}},
			ref:      ProfileByName("Wi-Fi"),
			want:     NoWiFiProfiles,
		},
		{
			name:     "name not among candidates",
			profiles: []jamfprotest.Profile{{ID: 1, Name: "Guest", Payload: corpWiFi}},
			ref:      ProfileByName("CorpWiFi"),
			want:     ProfileNotFound,
		},
		{
			name: "empty name",
			ref:  ProfileByName("  "),
			want: ProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFixture(t)
			srv.Profiles = tt.profiles

			result := newTestRunner(t, srv).Run(context.Background(), basicRequest(tt.ref))
			if result.Succeeded() {
				t.Fatal("Run() should fail")
			}
			if result.Failure.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", result.Failure.Kind, tt.want)
			}
			if result.Failure.Stage != StageResolvingProfile {
				t.Errorf("Stage = %v, want ResolvingProfile", result.Failure.Stage)
			}
			if srv.CallsWithPrefix("/JSSResource/mobiledevices/") != 0 {
				t.Error("device lookup should not run after a profile failure")
			}
		})
	}
}

func TestRun_SelectorResultIsChecked(t *testing.T) {
	srv := newFixture(t)
	bogus := &jamfpro.ConfigurationProfile{ID: 3, Name: "Restrictions", Payload: "com.apple.applicationaccess"}
	runner := newTestRunner(t, srv, WithSelector(SelectorFunc(func(string, []*jamfpro.ConfigurationProfile) (*jamfpro.ConfigurationProfile, bool) {
		return bogus, true
	})))

	result := runner.Run(context.Background(), basicRequest(ProfileByName("anything")))
	if result.Succeeded() || result.Failure.Kind != ProfileInvalidPayload {
		t.Fatalf("Failure = %v, want ProfileInvalidPayload", result.Failure)
	}
}

func TestRun_ByIDWithoutWiFiPayload(t *testing.T) {
	srv := newFixture(t)

	result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(3)))
	if result.Succeeded() || result.Failure.Kind != ProfileInvalidPayload {
		t.Fatalf("Failure = %v, want ProfileInvalidPayload", result.Failure)
	}
	if result.Failure.Kind == ProfileNotFound {
		t.Error("a fetched profile without Wi-Fi payload is not a missing profile")
	}
}

func TestRun_ByIDMissing(t *testing.T) {
	srv := newFixture(t)

	result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(404)))
	if result.Succeeded() || result.Failure.Kind != ProfileNotFound {
		t.Fatalf("Failure = %v, want ProfileNotFound", result.Failure)
	}
	if !jamfpro.IsNotFoundError(result.Failure) {
		t.Error("failure should preserve the not-found cause")
	}
}

func TestRun_AuthenticationFailure(t *testing.T) {
	srv := newFixture(t)
	rec := &recorder{}
	req := basicRequest(ProfileByID(7))
	req.Credentials.Secret = "wrong"

	result := newTestRunner(t, srv, WithObserver(rec)).Run(context.Background(), req)

	if result.Succeeded() || result.Failure.Kind != AuthenticationFailure {
		t.Fatalf("Failure = %v, want AuthenticationFailure", result.Failure)
	}
	if result.Title != "Authentication Error" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Message != "Could not authenticate. Please check the url and authentication details" {
		t.Errorf("Message = %q", result.Message)
	}
	if srv.TotalCalls() != 1 {
		t.Errorf("TotalCalls = %d, want 1", srv.TotalCalls())
	}
	if !reflect.DeepEqual(rec.busy, []bool{true, false}) {
		t.Errorf("busy = %v, want [true false]", rec.busy)
	}
	if !reflect.DeepEqual(rec.events, []string{"start Authenticating", "fail Authenticating"}) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestRun_OAuth(t *testing.T) {
	srv := newFixture(t)
	req := basicRequest(ProfileByID(7))
	req.AuthMode = jamfpro.AuthModeOAuth
	req.Credentials = jamfpro.Credentials{Identifier: "client-id", Secret: "client-secret"}

	result := newTestRunner(t, srv).Run(context.Background(), req)
	if !result.Succeeded() {
		t.Fatalf("Run() failed: %v", result.Failure)
	}
	if srv.Calls(jamfpro.PathOAuthToken) != 1 || srv.Calls(jamfpro.PathBasicToken) != 0 {
		t.Error("OAuth mode should only call the OAuth token endpoint")
	}
}

func TestRun_VersionGate(t *testing.T) {
	tests := []struct {
		version string
		want    FailureKind
		message string
	}{
		{"10.49.3", VersionUnsupported, "Jamf Pro version 10.50 or higher is required"},
		{"10.5.0", VersionUnsupported, "Jamf Pro version 10.50 or higher is required"},
		{"10.50", VersionUnknown, "Could not fetch Jamf Pro Version"},
		{"garbage", VersionUnknown, "Could not fetch Jamf Pro Version"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			srv := newFixture(t)
			srv.Version = tt.version

			result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(7)))
			if result.Succeeded() || result.Failure.Kind != tt.want {
				t.Fatalf("Failure = %v, want %v", result.Failure, tt.want)
			}
			if result.Message != tt.message {
				t.Errorf("Message = %q, want %q", result.Message, tt.message)
			}
			if result.Failure.Stage != StageCheckingVersion {
				t.Errorf("Stage = %v", result.Failure.Stage)
			}

			// nothing past the gate reaches the server
			if srv.CallsWithPrefix("/JSSResource/") != 0 {
				t.Error("Classic API called after version gate failure")
			}
			if srv.CallsWithPrefix(jamfpro.PathMobileDeviceDetail) != 0 || srv.Calls(jamfpro.PathMDMCommands) != 0 {
				t.Error("device or command endpoint called after version gate failure")
			}
		})
	}
}

func TestRun_VersionEndpointFailure(t *testing.T) {
	srv := newFixture(t)
	srv.StatusOverrides[jamfpro.PathVersion] = 500

	result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(7)))
	if result.Succeeded() || result.Failure.Kind != VersionUnknown {
		t.Fatalf("Failure = %v, want VersionUnknown", result.Failure)
	}
}

func TestRun_DeviceFailsClosed(t *testing.T) {
	srv := newFixture(t)
	req := basicRequest(ProfileByID(7))
	req.Serial = "UNKNOWN"

	result := newTestRunner(t, srv).Run(context.Background(), req)
	if result.Succeeded() || result.Failure.Kind != DeviceNotFound {
		t.Fatalf("Failure = %v, want DeviceNotFound", result.Failure)
	}
	if srv.CallsWithPrefix(jamfpro.PathMobileDeviceDetail) != 0 {
		t.Error("management ID lookup should not run after a device lookup failure")
	}
	if srv.Calls(jamfpro.PathMDMCommands) != 0 {
		t.Error("command should not be sent")
	}
}

func TestRun_ManagementIDMissing(t *testing.T) {
	srv := newFixture(t)
	srv.Devices["SN123"] = jamfprotest.Device{ID: 55}

	result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(7)))
	if result.Succeeded() || result.Failure.Kind != ManagementIDNotFound {
		t.Fatalf("Failure = %v, want ManagementIDNotFound", result.Failure)
	}
	if result.DeviceID != 55 {
		t.Errorf("DeviceID = %d, want 55", result.DeviceID)
	}
	if srv.Calls(jamfpro.PathMDMCommands) != 0 {
		t.Error("command should not be sent")
	}
}

func TestRun_CommandRejected(t *testing.T) {
	for _, code := range []int{200, 400, 500} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			srv := newFixture(t)
			srv.CommandStatus = code

			result := newTestRunner(t, srv).Run(context.Background(), basicRequest(ProfileByID(7)))
			if result.Succeeded() || result.Failure.Kind != CommandRejected {
				t.Fatalf("Failure = %v, want CommandRejected", result.Failure)
			}
			if result.Failure.StatusCode != code {
				t.Errorf("StatusCode = %d, want %d", result.Failure.StatusCode, code)
			}
			want := fmt.Sprintf("The return to service command failed with error %d", code)
			if result.Message != want {
				t.Errorf("Message = %q, want %q", result.Message, want)
			}
			if result.Title != "Return To Service" {
				t.Errorf("Title = %q", result.Title)
			}
		})
	}
}

func TestFindWiFiProfiles(t *testing.T) {
	srv := newFixture(t)
	rec := &recorder{}
	runner := newTestRunner(t, srv, WithObserver(rec))

	scan, err := runner.FindWiFiProfiles(context.Background(), jamfpro.Credentials{Identifier: "admin", Secret: "secret"}, jamfpro.AuthModeBasic)
	if err != nil {
		t.Fatalf("FindWiFiProfiles() error = %v", err)
	}
	if len(scan.Candidates) != 1 || scan.Candidates[0].Name != "CorpWiFi" {
		t.Errorf("Candidates = %+v", scan.Candidates)
	}
	if srv.Calls(jamfpro.PathVersion) != 0 {
		t.Error("scan should not check the version")
	}
	if !reflect.DeepEqual(rec.busy, []bool{true, false}) {
		t.Errorf("busy = %v", rec.busy)
	}
}

func TestFindWiFiProfiles_Failures(t *testing.T) {
	srv := newFixture(t)
	runner := newTestRunner(t, srv)

	_, err := runner.FindWiFiProfiles(context.Background(), jamfpro.Credentials{Identifier: "admin", Secret: "nope"}, jamfpro.AuthModeBasic)
	if !IsKind(err, AuthenticationFailure) {
		t.Errorf("bad credentials error = %v, want AuthenticationFailure", err)
	}

	srv.Profiles = nil
	_, err = runner.FindWiFiProfiles(context.Background(), jamfpro.Credentials{Identifier: "admin", Secret: "secret"}, jamfpro.AuthModeBasic)
	if !IsKind(err, NoWiFiProfiles) {
		t.Errorf("empty catalog error = %v, want NoWiFiProfiles", err)
	}
}

func TestFailure_ErrorChain(t *testing.T) {
	cause := jamfpro.NewNotFoundError(jamfpro.PathMobileDeviceBySerial+"X", "missing")
	f := &Failure{Kind: DeviceNotFound, Stage: StageResolvingDevice, Err: cause}

	var err error = f
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.HasPrefix(err.Error(), "Could not find a mobile device") {
		t.Errorf("Error() = %q", err.Error())
	}
	got, ok := AsFailure(fmt.Errorf("wrapped: %w", err))
	if !ok || got.Kind != DeviceNotFound {
		t.Errorf("AsFailure() = %v, %v", got, ok)
	}
}

func TestRun_RunIDPerRun(t *testing.T) {
	srv := newFixture(t)
	runner := newTestRunner(t, srv)

	first := runner.Run(context.Background(), basicRequest(ProfileByID(7)))
	second := runner.Run(context.Background(), basicRequest(ProfileByID(99)))

	for _, r := range []Result{first, second} {
		if _, err := uuid.Parse(r.RunID); err != nil {
			t.Errorf("RunID %q is not a UUID: %v", r.RunID, err)
		}
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own RunID")
	}
}
