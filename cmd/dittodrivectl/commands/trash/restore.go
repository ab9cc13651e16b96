package trash

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <node-id>",
	Short: "Restore a trashed node",
	Long: `Restore a trashed node to its original path.

Restoring fails with a conflict if a live node has taken the path in the
meantime; rename or move that node first.

Examples:
  # Restore a node
  dittodrivectl trash restore 7c9e6679-7425-40de-944b-e07fc1f90ae7`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	node, err := client.RestoreNode(args[0])
	if err != nil {
		return err
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, node,
		fmt.Sprintf("Node restored to '%s'", node.Path))
}
