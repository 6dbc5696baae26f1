package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/backup"
	"github.com/sysup/sysup/internal/common/config"
	"github.com/sysup/sysup/internal/common/logger"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
	"github.com/sysup/sysup/internal/engine"
	"github.com/sysup/sysup/internal/hooks"
	"github.com/sysup/sysup/internal/notify"
	"github.com/sysup/sysup/internal/repos"
	"github.com/sysup/sysup/internal/source"
	"github.com/sysup/sysup/internal/stats"
)

var (
	updateDryRun    bool
	updateNoConfirm bool
	updateParallel  bool
	updateNoPacman  bool
	updateNoAUR     bool
	updateNoFlatpak bool
	updateNoRepos   bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the system",
	Long: `Run a full system update: pacman packages, AUR packages, flatpak
apps, and tracked git repositories. Individual sources can be disabled
per run with the --no-* flags.`,
	Run: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Show pending updates without applying them")
	updateCmd.Flags().BoolVar(&updateNoConfirm, "noconfirm", false, "Skip confirmation prompts")
	updateCmd.Flags().BoolVar(&updateParallel, "parallel", false, "Update package sources in parallel")
	updateCmd.Flags().BoolVar(&updateNoPacman, "no-pacman", false, "Skip pacman updates")
	updateCmd.Flags().BoolVar(&updateNoAUR, "no-aur", false, "Skip AUR updates")
	updateCmd.Flags().BoolVar(&updateNoFlatpak, "no-flatpak", false, "Skip flatpak updates")
	updateCmd.Flags().BoolVar(&updateNoRepos, "no-repos", false, "Skip git repository updates")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	log := logger.Default()
	if err := log.EnableFileLogging(); err != nil {
		log.Warn("file logging unavailable: %v", err)
	}
	defer log.Close()

	cfg, err := config.Load()
	if err != nil {
		output.PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Ctrl-C cancels the run between sources
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := run.NewExecRunner()

	checkoutPaths, err := loadCheckoutPaths()
	if err != nil {
		output.PrintError("Failed to load tracked repositories: %v", err)
		os.Exit(1)
	}

	enabled := source.Enabled{
		System:    cfg.EnablePacman && !updateNoPacman,
		Helpers:   cfg.EnableAUR && !updateNoAUR,
		Sandbox:   cfg.EnableFlatpak && !updateNoFlatpak,
		Checkouts: cfg.EnableGitRepos && !updateNoRepos,
	}

	pipeline := &engine.Pipeline{
		Adapters: source.Registry(enabled, runner, checkoutPaths, runner, log),
		Strategy: engine.NewStrategy(log),
		Log:      log,
	}

	if cfg.EnableBackups {
		if dir, err := config.BackupDir(); err == nil {
			pipeline.Backup = backup.NewManager(dir, runner)
		} else {
			log.Warn("backup directory unavailable: %v", err)
		}
	}

	if dir, err := config.HooksDir(); err == nil {
		pipeline.Hooks = hooks.NewRunner(dir, runner)
	} else {
		log.Warn("hooks directory unavailable: %v", err)
	}

	if path, err := config.StatsFile(); err == nil {
		pipeline.Stats = stats.NewStore(path)
	} else {
		log.Warn("statistics file unavailable: %v", err)
	}

	if cfg.EnableNotifications {
		pipeline.Notifier = notify.NewManager(cfg.NotificationMethods, cfg.WebhookURL, runner, log)
	}

	opts := engine.Options{
		DryRun:    updateDryRun,
		NoConfirm: updateNoConfirm || cfg.NoConfirm,
		Parallel:  updateParallel || cfg.ParallelUpdates,
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, engine.ErrCancelled) {
			output.PrintWarning("Update cancelled")
			os.Exit(130)
		}
		output.PrintError("Update failed: %v", err)
		os.Exit(1)
	}

	printSummary(result, opts)

	if len(result.Failed()) > 0 {
		os.Exit(1)
	}
}

// loadCheckoutPaths reads the tracked repository list for the run
func loadCheckoutPaths() ([]string, error) {
	path, err := config.ReposFile()
	if err != nil {
		return nil, err
	}
	return repos.NewStore(path).Load()
}

// printSummary reports the run result to the operator
func printSummary(result *engine.RunOutcome, opts engine.Options) {
	if opts.DryRun {
		pending := 0
		for _, out := range result.Sources {
			if out.Pending {
				pending++
			}
		}
		if pending == 0 {
			output.PrintSuccess("Everything is up to date")
		}
		return
	}

	output.Heading("Update Summary")

	total := result.TotalUpdated()
	switch total {
	case 0:
		output.PrintSuccess("Everything is up to date")
	case 1:
		output.PrintSuccess("Updated 1 component")
	default:
		output.PrintSuccess("Updated %d components", total)
	}

	for _, out := range result.Failed() {
		output.PrintError("%s: %v", out.Name, out.Err)
	}
}
