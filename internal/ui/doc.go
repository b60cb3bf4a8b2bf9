// Package ui provides terminal UI components for the rtsctl CLI.
//
// This package uses Lipgloss to render polished terminal output for
// commands. Unlike the interactive profile picker, these components follow
// a "run once and exit" pattern - they render output compellingly but don't
// require user interaction (apart from the erase confirmation).
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Step list showing real-time stage status
//   - Result: Success/failure boxes with details and troubleshooting
//   - StageReporter: an rts.Observer that prints a line per stage
//
// # Usage Pattern
//
//	printer := ui.NewPrinter(os.Stdout)
//	printer.PrintHeader("Return To Service", "rtsctl send",
//	    ui.Field{Key: "Server", Value: serverURL},
//	    ui.Field{Key: "Serial", Value: serial},
//	)
//
//	reporter := ui.NewStageReporter(os.Stdout, rts.RunStages())
//	runner := rts.NewRunner(client,
//	    rts.WithObserver(reporter),
//	    rts.WithScanProgress(reporter.ScanProgress),
//	)
//	result := runner.Run(ctx, req)
//	printer.PrintRunResult(result, reporter.Elapsed())
//
// # Logging Integration
//
// This package expects logging to be controlled via the RTS_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
