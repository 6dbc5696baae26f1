package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/config"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show update statistics",
	Run:   runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	path, err := config.StatsFile()
	if err != nil {
		output.PrintError("Failed to locate statistics file: %v", err)
		os.Exit(1)
	}

	st, err := stats.NewStore(path).Load()
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}

	output.Heading("Update Statistics")

	fmt.Printf("Total updates: %d\n", st.TotalUpdates)
	if st.LastUpdate != nil {
		fmt.Printf("Last update:   %s\n", st.LastUpdate.Format("2006-01-02 15:04"))
	} else {
		fmt.Println("Last update:   never")
	}

	if len(st.ComponentUpdates) > 0 {
		fmt.Println()
		output.Println(output.Header, "By component:")
		for _, component := range st.TopComponents(len(st.ComponentUpdates)) {
			fmt.Printf("  %-12s %d\n", component, st.ComponentUpdates[component])
		}
	}

	recent := st.Recent(10)
	if len(recent) > 0 {
		fmt.Println()
		output.Println(output.Header, "Recent updates:")
		for i := len(recent) - 1; i >= 0; i-- {
			e := recent[i]
			fmt.Printf("  %s  %-12s %d item(s)\n",
				e.Timestamp.Format("2006-01-02 15:04"), e.Component, e.ItemCount)
		}
	}
}
