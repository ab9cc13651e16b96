package grant

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

var lsCmd = &cobra.Command{
	Use:   "ls <node-id>",
	Short: "List grants on a node",
	Long: `List all grants on a node.

Examples:
  # List grants
  dittodrivectl grant ls 7c9e6679-7425-40de-944b-e07fc1f90ae7`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	grants, err := client.ListGrants(args[0])
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(os.Stdout, grants, len(grants) == 0, "No grants on this node.", grantsTable(grants))
}

func grantsTable(grants []apiclient.Grant) *output.TableData {
	table := output.NewTableData("GRANTEE", "ROLE", "GRANTED")
	for _, g := range grants {
		table.AddRow(g.GranteeID, g.Role, timeutil.FormatLocal(g.CreatedAt))
	}
	return table
}
