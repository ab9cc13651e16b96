package trash

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

var (
	lsPage     int
	lsPageSize int
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List trashed nodes",
	Long: `List your trashed nodes, most recently deleted first.

Examples:
  # List the trash
  dittodrivectl trash ls

  # As JSON
  dittodrivectl trash ls -o json`,
	RunE: runLs,
}

func init() {
	lsCmd.Flags().IntVar(&lsPage, "page", 0, "Page number (1-based)")
	lsCmd.Flags().IntVar(&lsPageSize, "page-size", 0, "Items per page")
}

func runLs(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	page, err := client.ListTrash(lsPage, lsPageSize)
	if err != nil {
		return err
	}

	return cmdutil.PrintOutput(os.Stdout, page, len(page.Items) == 0, "Trash is empty.", trashTable(page.Items))
}

func trashTable(nodes []apiclient.Node) *output.TableData {
	table := output.NewTableData("ID", "NAME", "KIND", "SIZE", "ORIGINAL PATH", "DELETED")
	for _, n := range nodes {
		size := "-"
		if !n.IsFolder() {
			size = humanize.IBytes(uint64(n.Size))
		}
		deleted := "-"
		if n.DeletedAt != nil {
			deleted = timeutil.FormatLocal(*n.DeletedAt)
		}
		table.AddRow(n.ID, n.Name, n.Kind, size, n.Path, deleted)
	}
	return table
}
