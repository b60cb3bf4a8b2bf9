// Rtsctl sends the Jamf Pro Return To Service command to a mobile device.
//
// Return To Service erases an iPhone or iPad and has it re-enroll on its
// own, joining the network described by a Wi-Fi configuration profile.
// Rtsctl authenticates against Jamf Pro, checks that the server is 10.50
// or newer, resolves the Wi-Fi profile and the device's management ID,
// and queues the ERASE_DEVICE command.
//
// Usage:
//
//	rtsctl [serial] [flags]
//	rtsctl [command] [flags]
//
// Running without a command launches the interactive profile picker.
// See 'rtsctl --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/rtsctl/internal/logging"
	"github.com/muurk/rtsctl/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rtsctl [serial]",
	Short: "Jamf Pro Return To Service utility",
	Long: `Send the Return To Service command to Jamf Pro managed mobile devices.

Return To Service erases the device and has it re-enroll automatically,
joining Wi-Fi with a configuration profile from Jamf Pro. Requires
Jamf Pro 10.50 or later.

If no command is specified, the interactive profile picker launches:
the Wi-Fi profiles on the server are listed and the chosen one is sent
with the command.`,
	Version: version.Version,
	Example: `  # Save the server and account once
  rtsctl configure --url https://example.jamfcloud.com --username api-client --api-roles

  # Pick a Wi-Fi profile interactively, then erase the device
  rtsctl F9FXK0ABCD12

  # Non-interactive
  RTS_SECRET=... rtsctl send --serial F9FXK0ABCD12 --profile-name "Corp Wi-Fi" --yes`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: runInteractive,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rtsctl %s\n", version.Full())
	},
}
