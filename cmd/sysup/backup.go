package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/backup"
	"github.com/sysup/sysup/internal/common/config"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage package-list backups",
	Long:  `Create and list backups of the explicitly-installed package list.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a package-list backup",
	Run:   runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups",
	Run:   runBackupList,
}

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	rootCmd.AddCommand(backupCmd)
}

func backupManager() *backup.Manager {
	dir, err := config.BackupDir()
	if err != nil {
		output.PrintError("Failed to locate backup directory: %v", err)
		os.Exit(1)
	}
	return backup.NewManager(dir, run.NewExecRunner())
}

func runBackupCreate(cmd *cobra.Command, args []string) {
	path, err := backupManager().Create(context.Background())
	if err != nil {
		output.PrintError("Backup failed: %v", err)
		os.Exit(1)
	}
	output.PrintSuccess("Backup created: %s", path)
}

func runBackupList(cmd *cobra.Command, args []string) {
	entries, err := backupManager().List()
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		output.PrintInfo("No backups found")
		return
	}

	output.Heading("Package Backups")
	for _, e := range entries {
		fmt.Printf("%s  %s  %s\n",
			e.Name,
			e.ModTime.Format("2006-01-02 15:04"),
			formatSize(e.Size))
	}
}

// formatSize renders a byte count in a short human form
func formatSize(bytes int64) string {
	const kb = 1024
	switch {
	case bytes >= kb*kb:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(kb*kb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
