// Package commands implements the CLI commands for the dittodrivectl client.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	grantcmd "github.com/marmos91/dittodrive/cmd/dittodrivectl/commands/grant"
	trashcmd "github.com/marmos91/dittodrive/cmd/dittodrivectl/commands/trash"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dittodrivectl",
	Short: "DittoDrive Control - Remote management client",
	Long: `dittodrivectl is the command-line client for managing a DittoDrive server remotely.

Use this tool to browse and manage files and folders, the trash, access
grants, share links, and the activity feed through the DittoDrive REST API.

The server URL and access token can be passed with --server and --token,
or through the DITTODRIVE_SERVER and DITTODRIVE_TOKEN environment variables.

Use "dittodrivectl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Sync flags to cmdutil.Flags for subcommands
		cmdutil.Flags.ServerURL, _ = cmd.Flags().GetString("server")
		cmdutil.Flags.Token, _ = cmd.Flags().GetString("token")
		cmdutil.Flags.Output, _ = cmd.Flags().GetString("output")
		cmdutil.Flags.NoColor, _ = cmd.Flags().GetBool("no-color")
	},
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().String("server", "", "Server URL (overrides DITTODRIVE_SERVER)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (overrides DITTODRIVE_TOKEN)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(trashcmd.Cmd)
	rootCmd.AddCommand(grantcmd.Cmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(completionCmd)

	// The completion subcommand below replaces the generated one.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
