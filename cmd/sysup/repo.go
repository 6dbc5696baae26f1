package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/sysup/sysup/internal/common/config"
	"github.com/sysup/sysup/internal/common/output"
	"github.com/sysup/sysup/internal/repos"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage tracked git repositories",
	Long:  `Track local git repositories so 'sysup update' pulls them along with package updates.`,
}

var repoAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Track a git repository",
	Args:  cobra.ExactArgs(1),
	Run:   runRepoAdd,
}

var repoRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stop tracking a git repository",
	Args:  cobra.ExactArgs(1),
	Run:   runRepoRemove,
}

var repoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked git repositories",
	Run:   runRepoList,
}

func init() {
	repoCmd.AddCommand(repoAddCmd)
	repoCmd.AddCommand(repoRemoveCmd)
	repoCmd.AddCommand(repoListCmd)
	rootCmd.AddCommand(repoCmd)
}

func repoStore() *repos.Store {
	path, err := config.ReposFile()
	if err != nil {
		output.PrintError("Failed to locate repositories file: %v", err)
		os.Exit(1)
	}
	return repos.NewStore(path)
}

func runRepoAdd(cmd *cobra.Command, args []string) {
	path, err := repoStore().Add(args[0])
	if err != nil {
		switch {
		case errors.Is(err, repos.ErrAlreadyTracked):
			output.PrintWarning("Already tracked: %s", path)
		default:
			output.PrintError("%v", err)
			os.Exit(1)
		}
		return
	}
	output.PrintSuccess("Tracking %s", path)
}

func runRepoRemove(cmd *cobra.Command, args []string) {
	path, err := repoStore().Remove(args[0])
	if err != nil {
		if errors.Is(err, repos.ErrNotTracked) {
			output.PrintWarning("Not tracked: %s", path)
			return
		}
		output.PrintError("%v", err)
		os.Exit(1)
	}
	output.PrintSuccess("Removed %s", path)
}

func runRepoList(cmd *cobra.Command, args []string) {
	paths, err := repoStore().Load()
	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}

	if len(paths) == 0 {
		output.PrintInfo("No repositories tracked")
		return
	}

	output.Heading("Tracked Repositories")
	for _, path := range paths {
		status := output.Sprintf(output.Success, "ok")
		if err := repos.ValidateRepo(path); err != nil {
			status = output.Sprintf(output.Error, "missing")
		}
		output.Printf(output.Source, "%s", repos.DisplayName(path))
		output.Printf(output.Dim, "  %s  [%s]\n", path, status)
	}
}
