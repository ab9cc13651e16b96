package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
)

var statCmd = &cobra.Command{
	Use:   "stat <node-id>",
	Short: "Show node details",
	Long: `Display the full metadata of a single node.

Examples:
  # Show a node
  dittodrivectl stat 7c9e6679-7425-40de-944b-e07fc1f90ae7

  # As JSON
  dittodrivectl stat 7c9e6679-7425-40de-944b-e07fc1f90ae7 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	node, err := client.GetNode(args[0])
	if err != nil {
		return err
	}

	table := output.NewTableData("FIELD", "VALUE")
	table.AddRow("ID", node.ID)
	table.AddRow("Name", node.Name)
	table.AddRow("Kind", node.Kind)
	table.AddRow("Path", node.Path)
	table.AddRow("Parent", cmdutil.EmptyOr(node.ParentPath, "/"))
	table.AddRow("Owner", node.OwnerID)
	table.AddRow("Size", nodeSize(node))
	table.AddRow("Deleted", cmdutil.BoolToYesNo(node.IsDeleted))
	if node.DeletedAt != nil {
		table.AddRow("Deleted at", timeutil.FormatLocal(*node.DeletedAt))
	}
	table.AddRow("Created", timeutil.FormatLocal(node.CreatedAt))
	table.AddRow("Updated", timeutil.FormatLocal(node.UpdatedAt))

	return cmdutil.PrintResource(os.Stdout, node, table)
}
