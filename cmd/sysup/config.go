package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/config"
	"github.com/sysup/sysup/internal/common/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	Run:   runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	path, err := config.FindConfigPath()
	if err != nil {
		output.PrintError("Failed to locate configuration: %v", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		output.PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	output.Heading("Configuration")
	output.Printf(output.Dim, "%s\n\n", path)

	printToggle("Pacman updates", cfg.EnablePacman)
	printToggle("AUR updates", cfg.EnableAUR)
	printToggle("Flatpak updates", cfg.EnableFlatpak)
	printToggle("Git repository updates", cfg.EnableGitRepos)
	printToggle("Notifications", cfg.EnableNotifications)
	printToggle("Backups", cfg.EnableBackups)
	printToggle("Parallel updates", cfg.ParallelUpdates)
	printToggle("Skip confirmations", cfg.NoConfirm)

	if len(cfg.NotificationMethods) > 0 {
		fmt.Printf("%-24s %s\n", "Notification methods:", strings.Join(cfg.NotificationMethods, ", "))
	}
	if cfg.WebhookURL != "" {
		fmt.Printf("%-24s %s\n", "Webhook URL:", cfg.WebhookURL)
	}
	if len(cfg.ExcludedPackages) > 0 {
		fmt.Printf("%-24s %s\n", "Excluded packages:", strings.Join(cfg.ExcludedPackages, ", "))
	}
}

func printToggle(label string, on bool) {
	state := output.Sprintf(output.Success, "enabled")
	if !on {
		state = output.Sprintf(output.Dim, "disabled")
	}
	fmt.Printf("%-24s %s\n", label+":", state)
}
