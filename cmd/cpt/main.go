// Package main is the entry point for the Copilot Premium Requests TUI.
// It ingests a GitHub Copilot premium-request usage export (CSV) and
// presents usage, quota and cost analytics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhersi/copilot-premium-tui/internal/analytics"
	"github.com/mhersi/copilot-premium-tui/internal/app"
	"github.com/mhersi/copilot-premium-tui/internal/config"
	"github.com/mhersi/copilot-premium-tui/internal/ingest"
	"github.com/mhersi/copilot-premium-tui/internal/logger"
	"github.com/mhersi/copilot-premium-tui/internal/models"
	"github.com/mhersi/copilot-premium-tui/internal/report"
	"github.com/mhersi/copilot-premium-tui/internal/services"
	"github.com/mhersi/copilot-premium-tui/internal/ui/tabs/insights"
	"github.com/mhersi/copilot-premium-tui/internal/ui/tabs/overview"
	"github.com/mhersi/copilot-premium-tui/internal/ui/tabs/users"
	"github.com/mhersi/copilot-premium-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	var (
		plainReport = flag.Bool("report", false, "print a plain-text report instead of launching the TUI")
		watch       = flag.Bool("watch", false, "re-ingest whenever the export file changes")
		notify      = flag.Bool("notify", false, "send a desktop notification when ingestion finishes")
	)
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one CSV export path")
		printUsage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	if err := run(path, *plainReport, *watch, *notify); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(path string, plainReport, watch, notify bool) error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if notify {
		cfg.Notify = true
	}

	// One-shot mode: ingest, print, exit.
	if plainReport {
		return runReport(cfg, path)
	}

	// 2. Redirect logging away from the terminal while the TUI owns it
	restoreLog, err := logger.RedirectToFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not redirect logs: %v\n", err)
	} else {
		defer func() {
			if closeErr := restoreLog(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: error closing log file: %v\n", closeErr)
			}
		}()
	}

	// 3. Initialize the service manager owning the ingestion pipeline
	svcManager := services.NewManager(cfg, path)
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if watch {
		if err := svcManager.Watch(); err != nil {
			return fmt.Errorf("failed to watch export file: %w", err)
		}
	}

	// 4. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 5. Initialize tabs with shared state
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state), // Tab 0: Overview - org-wide usage summary
		users.New(state),    // Tab 1: Users - per-user quota consumption
		insights.New(state), // Tab 2: Insights - power users, cost, adoption
	}
	model.SetTabs(tabs)

	// 6. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 7. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 8. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 9. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// runReport ingests the export synchronously and prints a plain-text report.
func runReport(cfg *config.Config, path string) error {
	src, err := ingest.OpenCSV(path, cfg.ChunkSize)
	if err != nil {
		return err
	}
	defer src.Close()

	var (
		result    *models.IngestionResult
		ingestErr error
	)
	ingest.Ingest(context.Background(), src, ingest.DefaultAggregators(), ingest.Options{
		Pricing:            cfg.Pricing,
		ProgressResolution: cfg.ProgressResolution,
		OnComplete:         func(r *models.IngestionResult) { result = r },
		OnError:            func(err error) { ingestErr = err },
	})
	if ingestErr != nil {
		return ingestErr
	}

	opts := analytics.Options{
		Pricing: cfg.Pricing,
		PowerUser: analytics.PowerUserOptions{
			MinRequests: cfg.PowerUserMinRequests,
			TopN:        cfg.PowerUserTopN,
		},
		CostOpt: analytics.CostOptimizationOptions{
			StrongThreshold:    cfg.StrongOverageThreshold,
			BreakEvenThreshold: cfg.BreakEvenOverageThreshold,
		},
	}
	fmt.Print(report.Render(analytics.BuildReport(result, opts)))
	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Copilot Premium Requests TUI - usage, quota and cost analytics for
GitHub Copilot premium-request CSV exports

Usage:
  cpt [flags] <export.csv>

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information
  -report         Print a plain-text report and exit (no TUI)
  -watch          Re-ingest whenever the export file is rewritten
  -notify         Desktop notification when ingestion finishes

Keyboard Shortcuts:
  1-3             Switch between tabs (Overview, Users, Insights)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  r               Re-ingest the export
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  CPT_BUSINESS_QUOTA            Business plan monthly quota (default: 300)
  CPT_ENTERPRISE_QUOTA          Enterprise plan monthly quota (default: 1000)
  CPT_OVERAGE_RATE              Cost per overage request in USD (default: 0.04)
  CPT_UPGRADE_DELTA             Per-user Enterprise upgrade cost (default: 20)
  CPT_CHUNK_SIZE                CSV rows read per chunk (default: 1000)
  CPT_PROGRESS_RESOLUTION       Rows between progress events (default: 500)
  CPT_POWER_USER_MIN_REQUESTS   Power-user qualification floor (default: 20)
  CPT_POWER_USER_TOP_N          Power users shown (default: 20)
  CPT_STRONG_OVERAGE            Strong upgrade-candidate threshold (default: 500)
  CPT_BREAK_EVEN_OVERAGE        Approaching break-even threshold (default: 250)
  CPT_NOTIFY                    Desktop notification when a run finishes
  CPT_LOG_FILE                  Log file used while the TUI owns the terminal

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/copilot-premium-tui/.env

For more information, visit: https://github.com/mhersi/copilot-premium-tui`)
}
