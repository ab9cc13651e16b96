package trash

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/prompt"
)

var purgeForce bool

var purgeCmd = &cobra.Command{
	Use:   "purge <node-id>",
	Short: "Permanently remove a trashed node",
	Long: `Permanently remove a trashed node and its stored content.

There is no way back after a purge. The node must already be in the trash.

Examples:
  # Purge a node (asks for confirmation)
  dittodrivectl trash purge 7c9e6679-7425-40de-944b-e07fc1f90ae7

  # Skip the confirmation prompt
  dittodrivectl trash purge 7c9e6679-7425-40de-944b-e07fc1f90ae7 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "Skip confirmation prompt")
}

func runPurge(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	confirmed, err := prompt.ConfirmWithForce(
		fmt.Sprintf("Permanently delete node '%s'? This cannot be undone.", args[0]), purgeForce)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := client.PurgeNode(args[0]); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Node '%s' permanently deleted", args[0]))
	return nil
}
