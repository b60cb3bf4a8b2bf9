package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/rts"
)

func TestStageReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewStageReporter(&out, rts.RunStages())

	r.Busy(true)

	r.StageStarted(rts.StageAuthenticating)
	r.StageFinished(rts.StageAuthenticating, nil)
	r.StageStarted(rts.StageCheckingVersion)
	r.StageFinished(rts.StageCheckingVersion, &rts.Failure{Kind: rts.VersionUnsupported})
	r.Busy(false)

	steps := r.progress.Steps
	if steps[0].Status != StepComplete {
		t.Errorf("step 1 status = %v, want complete", steps[0].Status)
	}
	if steps[1].Status != StepFailed || steps[1].Message != "VersionUnsupported" {
		t.Errorf("step 2 = %+v, want failed VersionUnsupported", steps[1])
	}
	if steps[2].Status != StepPending {
		t.Errorf("step 3 status = %v, want pending", steps[2].Status)
	}

	got := out.String()
	for _, want := range []string{"[1/6]", "Authenticate", "[2/6]", "Check Jamf Pro version"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Send Return To Service") {
		t.Error("stages that never started should not be printed")
	}
}

func TestStageReporter_ScanProgress(t *testing.T) {
	var out bytes.Buffer
	r := NewStageReporter(&out, rts.ScanStages())

	r.StageStarted(rts.StageResolvingProfile)
	out.Reset()
	r.ScanProgress(3, 4, jamfpro.ProfileSummary{ID: 3, Name: "x"}, false)

	step := r.progress.Steps[1]
	if step.Message != "3 of 4 profiles" {
		t.Errorf("message = %q", step.Message)
	}

	line := out.String()
	if !strings.HasSuffix(line, "\r") {
		t.Errorf("scan line should end with a carriage return: %q", line)
	}
	if !strings.Contains(line, "█") || !strings.Contains(line, "░") {
		t.Errorf("scan line should draw a partly filled bar: %q", line)
	}
	if !strings.Contains(line, "Resolve Wi-Fi profile") || !strings.Contains(line, "(3 of 4 profiles)") {
		t.Errorf("scan line = %q", line)
	}

	out.Reset()
	r.StageFinished(rts.StageResolvingProfile, nil)
	if r.progress.Steps[1].Message != "3 of 4 profiles" {
		t.Error("finished line should keep the scan count")
	}
	if final := out.String(); strings.Contains(final, "█") || !strings.Contains(final, StepMarkerComplete) {
		t.Errorf("finished line should replace the bar with the marker: %q", final)
	}
}

func TestStageReporter_IgnoresUnknownStage(t *testing.T) {
	var out bytes.Buffer
	r := NewStageReporter(&out, rts.ScanStages())

	r.StageStarted(rts.StageDispatching)
	r.StageFinished(rts.StageDispatching, nil)

	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNewRunResult_Success(t *testing.T) {
	result := rts.Result{
		Title:        rts.SuccessTitle,
		Message:      rts.SuccessMessage,
		Profile:      &jamfpro.ConfigurationProfile{ID: 7, Name: "CorpWiFi"},
		DeviceID:     55,
		ManagementID: "mgmt-9",
		StatusCode:   201,
	}

	box := NewRunResult(result, 1500*time.Millisecond)
	if box.Type != ResultSuccess {
		t.Errorf("Type = %v, want success", box.Type)
	}

	keys := map[string]string{}
	for _, d := range box.Details {
		keys[d.Key] = d.Value
	}
	if keys["Management ID"] != "mgmt-9" || keys["Device ID"] != "55" || keys["HTTP status"] != "201" {
		t.Errorf("Details = %+v", box.Details)
	}
	if keys["Wi-Fi profile"] != "CorpWiFi (ID 7)" {
		t.Errorf("Wi-Fi profile = %q", keys["Wi-Fi profile"])
	}

	if !strings.Contains(box.SetWidth(80).Render(), "SUCCESS") {
		t.Error("rendered box should contain SUCCESS")
	}
}

func TestNewRunResult_Failure(t *testing.T) {
	cause := jamfpro.NewHTTPError(jamfpro.PathMDMCommands, 400, "bad request")
	failure := &rts.Failure{Kind: rts.CommandRejected, Stage: rts.StageDispatching, StatusCode: 400}
	failure.Err = cause

	result := rts.Result{Title: failure.Title(), Message: failure.Message(), Failure: failure, StatusCode: 400}
	box := NewRunResult(result, 0)

	if box.Type != ResultFailure {
		t.Fatalf("Type = %v, want failure", box.Type)
	}
	if !errors.Is(box.Error, cause) {
		t.Error("box should carry the underlying cause")
	}
	if len(box.Troubleshooting) == 0 {
		t.Error("failure should have troubleshooting tips")
	}

	var failedAt string
	for _, d := range box.Details {
		if d.Key == "Failed at" {
			failedAt = d.Value
		}
		if d.Key == "Duration" {
			t.Error("zero duration should not be shown")
		}
	}
	if failedAt != "Send Return To Service" {
		t.Errorf("Failed at = %q", failedAt)
	}
}

func TestNewRunResult_StatusFromCause(t *testing.T) {
	failure := &rts.Failure{
		Kind:  rts.VersionUnknown,
		Stage: rts.StageCheckingVersion,
		Err:   jamfpro.NewHTTPError(jamfpro.PathVersion, 503, "unavailable"),
	}
	box := NewRunResult(rts.Result{Title: failure.Title(), Message: failure.Message(), Failure: failure}, 0)

	var status string
	for _, d := range box.Details {
		if d.Key == "HTTP status" {
			status = d.Value
		}
	}
	if status != "503" {
		t.Errorf("HTTP status = %q, want 503", status)
	}
}

func TestRunTroubleshooting_UsesCause(t *testing.T) {
	network := &rts.Failure{
		Kind: rts.AuthenticationFailure,
		Err:  jamfpro.NewNetworkError(jamfpro.PathBasicToken, "POST request failed", errors.New("reset")),
	}
	rejected := &rts.Failure{
		Kind: rts.AuthenticationFailure,
		Err:  jamfpro.NewAuthError(jamfpro.PathBasicToken, "credentials rejected", 401),
	}

	networkTips := strings.Join(RunTroubleshooting(network), "\n")
	rejectedTips := strings.Join(RunTroubleshooting(rejected), "\n")

	if !strings.Contains(networkTips, "reach") {
		t.Errorf("network failure tips = %q", networkTips)
	}
	if !strings.Contains(rejectedTips, "--api-roles") {
		t.Errorf("rejected credential tips = %q", rejectedTips)
	}
	if RunTroubleshooting(nil) != nil {
		t.Error("nil failure should have no tips")
	}
}

func TestRenderProfileTable(t *testing.T) {
	table := RenderProfileTable([]*jamfpro.ConfigurationProfile{
		{ID: 7, Name: "CorpWiFi"},
		{ID: 1024, Name: "Warehouse"},
	})

	lines := strings.Split(table, "\n")
	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want 3:\n%s", len(lines), table)
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], "1024") || !strings.Contains(lines[2], "Warehouse") {
		t.Errorf("row = %q", lines[2])
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader("Return To Service", "rtsctl send",
		Field{Key: "Server", Value: "https://jamf.example.com"},
		Field{Key: "Serial", Value: "SN123"},
	).SetWidth(80)

	got := h.Render()
	if !strings.Contains(got, "RETURN TO SERVICE") {
		t.Error("title should be upper-cased")
	}
	if strings.Index(got, "Server") > strings.Index(got, "Serial") {
		t.Error("params should render in the given order")
	}
}
