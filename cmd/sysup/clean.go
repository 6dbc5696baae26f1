package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove orphaned packages and clean caches",
}

var cleanOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Remove orphaned packages",
	Long:  `Remove packages installed as dependencies that nothing depends on anymore.`,
	Run:   runCleanOrphans,
}

var cleanCacheCmd = &cobra.Command{
	Use:       "cache [pacman|flatpak]",
	Short:     "Clean package caches",
	Long:      `Trim the pacman package cache and remove unused flatpak runtimes. With no target both are cleaned.`,
	ValidArgs: []string{"pacman", "flatpak"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Run:       runCleanCache,
}

func init() {
	cleanCmd.AddCommand(cleanOrphansCmd)
	cleanCmd.AddCommand(cleanCacheCmd)
	rootCmd.AddCommand(cleanCmd)
}

// runCleanOrphans removes packages installed as dependencies that nothing
// requires anymore. pacman -Qtdq exits non-zero when there are none.
func runCleanOrphans(cmd *cobra.Command, args []string) {
	runner := run.NewExecRunner()
	ctx := context.Background()

	output.Heading("Removing Orphaned Packages")

	out, err := runner.Output(ctx, "pacman", "-Qtdq")
	orphans := strings.Fields(strings.TrimSpace(out))
	if err != nil || len(orphans) == 0 {
		output.PrintSuccess("No orphaned packages found")
		return
	}

	output.PrintInfo("Found %d orphaned package(s)", len(orphans))

	rmArgs := append([]string{"pacman", "-Rns"}, orphans...)
	if err := runner.Run(ctx, "sudo", rmArgs...); err != nil {
		output.PrintError("Failed to remove orphans: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("Removed %d orphaned package(s)", len(orphans))
}

func runCleanCache(cmd *cobra.Command, args []string) {
	runner := run.NewExecRunner()
	ctx := context.Background()

	target := ""
	if len(args) > 0 {
		target = args[0]
	}

	output.Heading("Cleaning Caches")

	ok := true
	if target == "" || target == "pacman" {
		ok = cleanPacmanCache(ctx, runner) && ok
	}
	if target == "" || target == "flatpak" {
		ok = cleanFlatpakCache(ctx, runner) && ok
	}

	if !ok {
		os.Exit(1)
	}
}

// cleanPacmanCache trims the package cache via paccache (pacman-contrib)
func cleanPacmanCache(ctx context.Context, runner run.CommandRunner) bool {
	if !runner.LookPath("paccache") {
		output.PrintWarning("paccache not found, skipping pacman cache")
		return true
	}
	if err := runner.Run(ctx, "sudo", "paccache", "-r"); err != nil {
		output.PrintError("Failed to clean pacman cache: %v", err)
		return false
	}
	output.PrintSuccess("Pacman cache cleaned")
	return true
}

// cleanFlatpakCache removes flatpak runtimes nothing installed uses
func cleanFlatpakCache(ctx context.Context, runner run.CommandRunner) bool {
	if !runner.LookPath("flatpak") {
		output.PrintWarning("flatpak not found, skipping flatpak cleanup")
		return true
	}
	if err := runner.Run(ctx, "flatpak", "uninstall", "--unused", "-y"); err != nil {
		output.PrintError("Failed to clean flatpak runtimes: %v", err)
		return false
	}
	output.PrintSuccess("Unused flatpak runtimes removed")
	return true
}
