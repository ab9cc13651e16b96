package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/cmd/dittodrivectl/cmdutil"
)

var (
	searchPage     int
	searchPageSize int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search nodes by name",
	Long: `Search live nodes whose name contains the query, across every folder
you own or were granted access to.

Examples:
  # Find everything named like "report"
  dittodrivectl search report

  # Paginate results
  dittodrivectl search report --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 0, "Page number (1-based)")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "Items per page")
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	page, err := client.SearchNodes(args[0], searchPage, searchPageSize)
	if err != nil {
		return err
	}

	if err := cmdutil.PrintOutput(os.Stdout, page, len(page.Items) == 0, "No matching nodes found.", nodesTable(page.Items)); err != nil {
		return err
	}
	printPageFooter(page.TotalItems, page.Page, page.TotalPages)
	return nil
}
