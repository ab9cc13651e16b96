package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var (
	lsPage     int
	lsPageSize int
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List folder contents",
	Long: `List the live nodes inside a folder.

With no path, lists the drive root. Results are paginated; use --page and
--page-size to walk through large folders.

Examples:
  # List the drive root
  dittodrivectl ls

  # List a folder
  dittodrivectl ls /photos/2024

  # Second page, 50 entries at a time
  dittodrivectl ls /photos/2024 --page 2 --page-size 50`,
	Args: cobra.MaximumNArgs(1),
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

	parentPath := ""
	if len(args) > 0 {
		parentPath = normalizeDrivePath(args[0])
	}

	page, err := client.ListNodes(parentPath, lsPage, lsPageSize)
	if err != nil {
		return err
	}

	if err := cmdutil.PrintOutput(os.Stdout, page, len(page.Items) == 0, "Folder is empty.", nodesTable(page.Items)); err != nil {
		return err
	}
	printPageFooter(page.TotalItems, page.Page, page.TotalPages)
	return nil
}
