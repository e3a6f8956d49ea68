package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "hisaabflow",
		Short:   "Transfer pair detection across bank statement exports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDetectCommand())

	return rootCmd
}
