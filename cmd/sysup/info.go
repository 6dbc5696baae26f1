package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/common/run"
	"github.com/sysup/sysup/internal/sysinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system information",
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	output.Heading("System Information")

	for _, field := range sysinfo.Collect(context.Background(), run.NewExecRunner()) {
		output.Printf(output.Info, "%-16s", field.Label+":")
		fmt.Println(field.Value)
	}
}
