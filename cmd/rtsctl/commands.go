package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/rtsctl/internal/config"
	"github.com/muurk/rtsctl/internal/jamfpro"
	"github.com/muurk/rtsctl/internal/logging"
	"github.com/muurk/rtsctl/internal/picker"
	"github.com/muurk/rtsctl/internal/rts"
	"github.com/muurk/rtsctl/internal/ui"
)

// Command flags
var (
	rootSerial   string
	rootYes      bool
	sendSerial   string
	sendYes      bool
	profileID    int
	profileName  string
	confirmErase bool
)

func init() {
	rootCmd.Flags().StringVar(&rootSerial, "serial", "", "Serial number of the device to erase")
	rootCmd.Flags().BoolVarP(&rootYes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(configureCmd)
}

// sendCmd sends the command without the interactive picker
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send Return To Service to a device",
	Long: `Send the Return To Service command to one mobile device.

This command will:
  1. Authenticate with Jamf Pro
  2. Check that the server runs Jamf Pro 10.50 or later
  3. Resolve the Wi-Fi profile (by ID, or by name among the Wi-Fi profiles)
  4. Look up the device by serial number, then its management ID
  5. Queue the ERASE_DEVICE command with the Wi-Fi profile attached

The device is erased as soon as it receives the command.
Without --profile-id or --profile-name, the profile of the last
successful run is used.`,
	Example: `  # Send with a profile ID
  rtsctl send --serial F9FXK0ABCD12 --profile-id 42

  # Send with a profile name (matched case-insensitively)
  rtsctl send --serial F9FXK0ABCD12 --profile-name "Corp Wi-Fi"

  # Scripted use
  RTS_SECRET=... rtsctl send --serial F9FXK0ABCD12 --profile-id 42 --yes`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendSerial, "serial", "", "Serial number of the device to erase (required)")
	sendCmd.Flags().IntVar(&profileID, "profile-id", 0, "Wi-Fi configuration profile ID")
	sendCmd.Flags().StringVar(&profileName, "profile-name", "", "Wi-Fi configuration profile name")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "Do not ask for confirmation")
	_ = sendCmd.MarkFlagRequired("serial")
	sendCmd.MarkFlagsMutuallyExclusive("profile-id", "profile-name")
}

func runSend(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	settings, path, err := loadSettings(cmd)
	if err != nil {
		printer.PrintError("Settings", err, []string{"Check or delete the settings file"})
		return err
	}
	if err := settings.Validate(); err != nil {
		printer.PrintError("Settings", err, []string{"Save the connection once: rtsctl configure --url URL --username NAME"})
		return err
	}

	ref, err := resolveProfileRef(profileID, profileName, settings.Preferences.LastProfileID)
	if err != nil {
		return err
	}

	creds, err := readCredentials(cmd.Context(), settings)
	if err != nil {
		return err
	}

	return sendReturnToService(cmd.Context(), printer, settings, path, creds, sendSerial, ref, nil, sendYes)
}

// sendReturnToService confirms, runs and reports one Return To Service run.
// profile is the already-fetched profile when ref came from the picker.
func sendReturnToService(ctx context.Context, printer *ui.Printer, settings *config.Settings, path string,
	creds jamfpro.Credentials, serial string, ref rts.ProfileRef, profile *jamfpro.ConfigurationProfile, skipConfirm bool) error {
	profileLabel := ref.String()
	if profile != nil {
		profileLabel = fmt.Sprintf("%s (ID %d)", profile.Name, profile.ID)
	}

	printer.PrintHeader("Return To Service", "rtsctl send",
		ui.Field{Key: "Server", Value: settings.Server.URL},
		ui.Field{Key: "Account", Value: authLabel(settings)},
		ui.Field{Key: "Device", Value: serial},
		ui.Field{Key: "Wi-Fi profile", Value: profileLabel},
	)

	if needsConfirmation(settings, skipConfirm) {
		if !ui.ConfirmErase(os.Stdin, os.Stdout, serial, settings.Server.URL) {
			printer.PrintWarning("Cancelled", "No command was sent.")
			return nil // User cancelled
		}
	}

	client, err := newClient(settings)
	if err != nil {
		return err
	}

	reporter := ui.NewStageReporter(printer.Writer(), rts.RunStages())
	runner := rts.NewRunner(client,
		rts.WithObserver(rts.MultiObserver(reporter, rts.LogObserver{})),
		rts.WithScanProgress(reporter.ScanProgress),
	)

	result := runner.Run(ctx, rts.Request{
		Credentials: creds,
		AuthMode:    jamfpro.AuthModeFor(settings.Auth.UseAPIRoles),
		Serial:      serial,
		Profile:     ref,
	})
	printer.Newline()
	printer.PrintRunResult(result, reporter.Elapsed())

	if !result.Succeeded() {
		return result.Err()
	}

	rememberProfile(settings, path, result.Profile)
	return nil
}

// needsConfirmation reports whether the typed serial confirmation runs before sending
func needsConfirmation(settings *config.Settings, skipConfirm bool) bool {
	return !skipConfirm && settings.Preferences.ConfirmErase
}

// rememberProfile stores the profile of a successful run as the next default
func rememberProfile(settings *config.Settings, path string, profile *jamfpro.ConfigurationProfile) {
	if profile == nil || profile.ID == 0 || settings.Preferences.LastProfileID == profile.ID {
		return
	}
	settings.Preferences.LastProfileID = profile.ID
	if err := settings.SaveTo(path); err != nil {
		logging.Warn("Could not save last profile", zap.String("path", path), zap.Error(err))
	}
}

// profilesCmd lists the Wi-Fi profiles on the server
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List Wi-Fi configuration profiles",
	Long: `List the mobile device configuration profiles that contain a Wi-Fi payload.

The catalog does not say which profiles carry Wi-Fi settings, so every
profile is fetched in turn. This can take a while on large servers.`,
	Example: `  rtsctl profiles
  rtsctl profiles --url https://example.jamfcloud.com --username admin`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	settings, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		printer.PrintError("Settings", err, []string{"Save the connection once: rtsctl configure --url URL --username NAME"})
		return err
	}

	creds, err := readCredentials(cmd.Context(), settings)
	if err != nil {
		return err
	}

	printer.PrintHeader("Wi-Fi Profiles", "rtsctl profiles",
		ui.Field{Key: "Server", Value: settings.Server.URL},
		ui.Field{Key: "Account", Value: authLabel(settings)},
	)

	client, err := newClient(settings)
	if err != nil {
		return err
	}
	reporter := ui.NewStageReporter(printer.Writer(), rts.ScanStages())
	runner := rts.NewRunner(client,
		rts.WithObserver(rts.MultiObserver(reporter, rts.LogObserver{})),
		rts.WithScanProgress(reporter.ScanProgress),
	)

	scan, err := runner.FindWiFiProfiles(cmd.Context(), creds, jamfpro.AuthModeFor(settings.Auth.UseAPIRoles))
	printer.Newline()
	if err != nil {
		if f, ok := rts.AsFailure(err); ok {
			printer.PrintError(f.Title(), f, ui.RunTroubleshooting(f))
		}
		return err
	}

	printer.PrintProfiles(scan.Candidates)
	if len(scan.Skipped) > 0 {
		printer.Newline()
		printer.PrintWarning("Incomplete scan",
			fmt.Sprintf("%d of %d profiles could not be read and were left out.", len(scan.Skipped), scan.Scanned))
	}
	return nil
}

// configureCmd saves connection settings
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save the Jamf Pro server and account",
	Long: `Save the Jamf Pro server URL, account and preferences to the settings file.

Secrets are never saved. Provide them through the RTS_SECRET environment
variable or type them when prompted.`,
	Example: `  # User account
  rtsctl configure --url https://example.jamfcloud.com --username admin

  # API client with API roles
  rtsctl configure --url https://example.jamfcloud.com --username 5f1c... --api-roles

  # Skip the typed confirmation before erasing
  rtsctl configure --confirm-erase=false`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().BoolVar(&confirmErase, "confirm-erase", true, "Ask for the serial number before sending the command")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	settings, path, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("confirm-erase") {
		settings.Preferences.ConfirmErase = confirmErase
	}
	if settings.Server.URL != "" {
		if err := config.ValidateURL(settings.Server.URL); err != nil {
			printer.PrintError("Configuration", err, []string{"Use the full URL, e.g. https://example.jamfcloud.com"})
			return err
		}
	}

	if err := settings.SaveTo(path); err != nil {
		printer.PrintError("Configuration", err, nil)
		return err
	}

	printer.PrintSuccess("Configuration saved", path,
		ui.Field{Key: "Server", Value: settings.Server.URL},
		ui.Field{Key: "Account", Value: authLabel(settings)},
		ui.Field{Key: "Timeout", Value: strconv.Itoa(settings.Server.Timeout) + "s"},
		ui.Field{Key: "Confirm erase", Value: strconv.FormatBool(settings.Preferences.ConfirmErase)},
	)
	return nil
}

// runInteractive scans for Wi-Fi profiles in the picker, then sends the command
func runInteractive(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	printer := ui.NewPrinter(os.Stdout)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("the profile picker needs a terminal; use 'rtsctl send' instead")
	}

	settings, path, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		printer.PrintError("Settings", err, []string{"Save the connection once: rtsctl configure --url URL --username NAME"})
		return err
	}

	device := rootSerial
	if len(args) == 1 {
		device = args[0]
	}
	if strings.TrimSpace(device) == "" {
		if device, err = promptLine("Device serial number: "); err != nil {
			return err
		}
	}
	device = strings.TrimSpace(device)
	if device == "" {
		return fmt.Errorf("a serial number is required")
	}

	ctx := cmd.Context()
	creds, err := readCredentials(ctx, settings)
	if err != nil {
		return err
	}

	client, err := newClient(settings)
	if err != nil {
		return err
	}
	mode := jamfpro.AuthModeFor(settings.Auth.UseAPIRoles)

	choice, err := picker.Run(ctx, func(ctx context.Context, onProgress jamfpro.ScanProgressFunc) (*jamfpro.WiFiScan, error) {
		runner := rts.NewRunner(client, rts.WithObserver(rts.LogObserver{}), rts.WithScanProgress(onProgress))
		return runner.FindWiFiProfiles(ctx, creds, mode)
	}, picker.Options{
		Server:      settings.Server.URL,
		Serial:      device,
		PreselectID: settings.Preferences.LastProfileID,
	})
	if errors.Is(err, picker.ErrCancelled) {
		printer.PrintWarning("Cancelled", "No command was sent.")
		return nil
	}
	if err != nil {
		return err
	}

	return sendReturnToService(ctx, printer, settings, path, creds, device, choice.Ref, choice.Profile, rootYes)
}

// promptLine reads one line from stdin after printing label
func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
