// Package picker implements the full-screen Wi-Fi profile picker.
//
// The picker scans the Jamf Pro configuration profile catalog in the
// background and streams progress to a Bubble Tea program. Once the scan
// completes, the Wi-Fi profiles are shown in a filterable list. An operator
// who already knows the profile ID can skip the scan and enter it directly.
//
// # Screens
//
//   - Scanning: spinner and progress bar fed by the scan callback
//   - Results: bubbles/list of the Wi-Fi profiles, or the scan error
//   - Manual: bubbles/textinput for a numeric profile ID
//
// # Usage Example
//
//	choice, err := picker.Run(ctx, func(ctx context.Context, onProgress jamfpro.ScanProgressFunc) (*jamfpro.WiFiScan, error) {
//	    runner := rts.NewRunner(client, rts.WithScanProgress(onProgress))
//	    return runner.FindWiFiProfiles(ctx, creds, mode)
//	}, picker.Options{Server: url, Serial: serial})
//	if errors.Is(err, picker.ErrCancelled) {
//	    return nil
//	}
//
// # Key Bindings
//
//   - Results: ↑/↓ navigate, Enter select, / filter, r rescan, m manual ID, q quit
//   - Manual: Enter confirm, Esc back
package picker
