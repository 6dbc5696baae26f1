package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
	"github.com/sysup/sysup/internal/cron"
)

var scheduleCmd = &cobra.Command{
	Use:       "schedule [daily|weekly]",
	Short:     "Schedule automatic updates via cron",
	Long:      `Install a crontab entry that runs 'sysup update --noconfirm' at 2 AM daily or weekly.`,
	ValidArgs: []string{"daily", "weekly"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run:       runSchedule,
}

var unscheduleCmd = &cobra.Command{
	Use:   "unschedule",
	Short: "Remove scheduled automatic updates",
	Run:   runUnschedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(unscheduleCmd)
}

func cronManager() *cron.Manager {
	binPath, err := os.Executable()
	if err != nil {
		output.PrintError("Failed to locate sysup binary: %v", err)
		os.Exit(1)
	}
	return cron.NewManager(binPath, run.NewExecRunner())
}

func runSchedule(cmd *cobra.Command, args []string) {
	frequency := args[0]
	if err := cronManager().Schedule(context.Background(), frequency); err != nil {
		output.PrintError("Failed to schedule updates: %v", err)
		os.Exit(1)
	}
	output.PrintSuccess("Automatic %s updates scheduled at 2 AM", frequency)
}

func runUnschedule(cmd *cobra.Command, args []string) {
	err := cronManager().Unschedule(context.Background())
	if err != nil {
		if errors.Is(err, cron.ErrNotScheduled) || errors.Is(err, cron.ErrNoCrontab) {
			output.PrintWarning("No scheduled updates found")
			return
		}
		output.PrintError("Failed to unschedule updates: %v", err)
		os.Exit(1)
	}
	output.PrintSuccess("Automatic updates unscheduled")
}
