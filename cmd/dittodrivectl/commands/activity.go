package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
	"github.com/marmos91/dittodrive/internal/cli/output"
	"github.com/marmos91/dittodrive/internal/cli/timeutil"
	"github.com/marmos91/dittodrive/pkg/apiclient"
)

var (
	activityPage     int
	activityPageSize int
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show your activity feed",
	Long: `Show your activity feed, most recent first.

The feed records your mutating operations: uploads, folder creation,
renames, moves, trash operations, grants, and share links.

Examples:
  # Show recent activity
  dittodrivectl activity

  # Older entries
  dittodrivectl activity --page 3`,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().IntVar(&activityPage, "page", 0, "Page number (1-based)")
	activityCmd.Flags().IntVar(&activityPageSize, "page-size", 0, "Items per page")
}

func runActivity(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	page, err := client.ListActivity(activityPage, activityPageSize)
	if err != nil {
		return err
	}

	if err := cmdutil.PrintOutput(os.Stdout, page, len(page.Items) == 0, "No activity yet.", activityTable(page.Items)); err != nil {
		return err
	}
	printPageFooter(page.TotalItems, page.Page, page.TotalPages)
	return nil
}

func activityTable(entries []apiclient.ActivityEntry) *output.TableData {
	table := output.NewTableData("TIME", "ACTION", "PATH", "DETAIL")
	for _, e := range entries {
		table.AddRow(
			timeutil.FormatLocal(e.CreatedAt),
			e.Action,
			cmdutil.EmptyOr(e.Path, "-"),
			cmdutil.EmptyOr(e.Detail, "-"),
		)
	}
	return table
}
