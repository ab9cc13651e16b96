package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/prompt"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <node-id>",
	Short: "Move a node to the trash",
	Long: `Move a node to the trash.

Trashed nodes no longer occupy their path and disappear from listings, but
can be brought back with 'dittodrivectl trash restore' until they are
purged. Trashing a folder trashes its whole subtree.

Examples:
  # Trash a node (asks for confirmation)
  dittodrivectl rm 7c9e6679-7425-40de-944b-e07fc1f90ae7

  # Skip the confirmation prompt
  dittodrivectl rm 7c9e6679-7425-40de-944b-e07fc1f90ae7 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip confirmation prompt")
}

func runRm(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Move node '%s' to the trash?", args[0]), rmForce)
	if err != nil {
		return cmdutil.HandleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	if err := client.DeleteNode(args[0]); err != nil {
		return err
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Node '%s' moved to the trash", args[0]))
	return nil
}
