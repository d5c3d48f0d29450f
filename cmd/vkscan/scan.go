package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vkscan/pkg/checkpoint"
	"vkscan/pkg/logger"
	"vkscan/pkg/scraper"
	"vkscan/pkg/ui"
	"vkscan/pkg/ui/tui"
)

var (
	// Scan command flags
	forceRestart bool
	noCheckpoint bool
	useTUI       bool
	notify       bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Store the videos of every stored user",
	Long: `Visit every stored user in id order, list their videos and store each video
and its user link. Already stored rows are left untouched.

Videos are listed with video.get. When that returns nothing the public video
page is scraped instead. The first storage or network error stops the scan;
progress is checkpointed so running scan again continues where an interrupted
scan stopped.`,
	Example: `  # Scan all users, or continue an interrupted scan
  vkscan scan

  # Ignore an interrupted scan and start over
  vkscan scan --force-restart

  # Watch progress in the dashboard
  vkscan scan --tui`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard an existing checkpoint and start over")
	scanCmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "do not record progress")
	scanCmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive dashboard")
	scanCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the scan ends")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if useTUI {
		if err := silenceLogs(cfg); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	scanner := scraper.NewScanner(newResolver(client), store, logger.GetLogger())
	if !noCheckpoint {
		mgr, err := checkpoint.NewManager(checkpoint.NameFor(cfg.Database.Driver, cfg.Database.DSN))
		if err != nil {
			return err
		}
		if !forceRestart {
			reportUnfinishedScan(mgr)
		}
		scanner.UseCheckpoint(mgr, scraper.CheckpointOptions{ForceRestart: forceRestart})
	}

	var notifier *ui.Notifier
	if notify {
		notifier = ui.NewNotifier()
	}

	var summary *scraper.ScanSummary
	if useTUI {
		summary, err = scanWithDashboard(ctx, scanner)
	} else {
		scanner.SetReporter(ui.NewScanProgress(notifier))
		summary, err = scanner.ScanAll(ctx)
	}

	if err != nil {
		if summary != nil {
			ui.PrintInfo("Elapsed time", ui.FormatElapsed(summary.Duration))
		}
		if notifier != nil {
			notifier.SendError("vkscan", fmt.Sprintf("Scan failed: %v", err))
		}
		return err
	}

	if useTUI {
		ui.PrintInfo("Videos stored", fmt.Sprint(summary.VideosStored))
		ui.PrintInfo("Elapsed time", ui.FormatElapsed(summary.Duration))
		if notifier != nil {
			notifier.SendSuccess("vkscan", fmt.Sprintf("Scan finished: %d users, %d videos", len(summary.Users), summary.VideosStored))
		}
	}
	return nil
}

// reportUnfinishedScan tells the user that the scan continues an earlier one
func reportUnfinishedScan(mgr *checkpoint.Manager) {
	info, err := mgr.GetCheckpointInfo()
	if err != nil || info == nil {
		return
	}
	ui.PrintWarning("A previous scan did not finish, continuing it")
	ui.PrintInfo("Users already done", fmt.Sprintf("%v of %v", info["completed_users"], info["total_users"]))
	if age, ok := info["age"].(time.Duration); ok {
		ui.PrintInfo("Last progress", age.Round(time.Second).String()+" ago")
	}
	ui.PrintInfo("Start over instead", "vkscan scan --force-restart")
}

// scanWithDashboard runs the scan in the background while the dashboard owns
// the terminal. Quitting the dashboard cancels the scan.
func scanWithDashboard(ctx context.Context, scanner *scraper.Scanner) (*scraper.ScanSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dashboard := tui.NewTUI()
	scanner.SetReporter(dashboard)

	type scanResult struct {
		summary *scraper.ScanSummary
		err     error
	}
	scanDone := make(chan scanResult, 1)
	go func() {
		summary, err := scanner.ScanAll(ctx)
		if err != nil {
			dashboard.LogError("%v", err)
		}
		scanDone <- scanResult{summary, err}
	}()

	tuiDone := make(chan error, 1)
	go func() {
		tuiDone <- dashboard.Start()
	}()

	select {
	case res := <-scanDone:
		// Leave the final state on screen briefly before restoring the terminal
		time.Sleep(time.Second)
		dashboard.Stop()
		<-tuiDone
		return res.summary, res.err
	case err := <-tuiDone:
		cancel()
		res := <-scanDone
		if err != nil {
			return res.summary, fmt.Errorf("dashboard failed: %w", err)
		}
		return res.summary, res.err
	}
}
